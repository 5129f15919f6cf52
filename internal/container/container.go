package container

import (
	"fmt"
	"sync"
)

// Token identifies a registration.
type Token string

// Factory builds a component. It receives the container so it can resolve
// its own dependencies; registration order therefore does not matter.
type Factory func(c *Container) (any, error)

type registration struct {
	factory   Factory
	singleton bool
}

// Container is an explicit dependency-injection container. It is built in
// main and passed down by reference; there is no package-level instance.
// An unregistered token is a configuration bug, so Resolve fails hard
// instead of degrading.
//
// The singleton cache is the only shared mutable state in the kernel and
// is safe for concurrent Resolve: the first stored instance wins and is
// what every caller observes.
type Container struct {
	mu            sync.RWMutex
	registrations map[Token]registration
	singletons    map[Token]any
}

func New() *Container {
	return &Container{
		registrations: make(map[Token]registration),
		singletons:    make(map[Token]any),
	}
}

// RegisterInstance registers a pre-built value. Resolution always returns
// exactly this value.
func (c *Container) RegisterInstance(token Token, value any) {
	c.RegisterSingleton(token, func(*Container) (any, error) { return value, nil })
}

// RegisterSingleton registers a factory whose product is cached after the
// first resolution.
func (c *Container) RegisterSingleton(token Token, f Factory) {
	c.register(token, f, true)
}

// RegisterTransient registers a factory that runs on every resolution.
func (c *Container) RegisterTransient(token Token, f Factory) {
	c.register(token, f, false)
}

func (c *Container) register(token Token, f Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations[token] = registration{factory: f, singleton: singleton}
	delete(c.singletons, token)
}

// Resolve returns the component for token, constructing it if needed.
func (c *Container) Resolve(token Token) (any, error) {
	c.mu.RLock()
	reg, ok := c.registrations[token]
	if !ok {
		c.mu.RUnlock()
		return nil, fmt.Errorf("container: no registration for token %q", token)
	}
	if reg.singleton {
		if v, cached := c.singletons[token]; cached {
			c.mu.RUnlock()
			return v, nil
		}
	}
	c.mu.RUnlock()

	if !reg.singleton {
		return reg.factory(c)
	}

	// Construction happens outside the lock: factories resolve their own
	// dependencies through the container, so holding the mutex here would
	// self-deadlock. Racing goroutines may both build a cold singleton;
	// the first store wins and every caller gets that instance.
	v, err := reg.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: building %q: %w", token, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.singletons[token]; ok {
		return cached, nil
	}
	c.singletons[token] = v
	return v, nil
}

// MustResolve is Resolve for wiring paths where a missing registration is
// fatal, which is every startup path.
func (c *Container) MustResolve(token Token) any {
	v, err := c.Resolve(token)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether token is registered.
func (c *Container) Has(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registrations[token]
	return ok
}

// Clear drops all registrations and cached singletons.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = make(map[Token]registration)
	c.singletons = make(map[Token]any)
}

// Child returns a new container pre-populated with copies of the parent's
// registrations. The child builds its own singletons, and registrations
// added to it never touch the parent; this is the request-scoped override
// mechanism.
func (c *Container) Child() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	child := New()
	for token, reg := range c.registrations {
		child.registrations[token] = reg
	}
	return child
}

// Resolve is the typed companion to Container.Resolve.
func Resolve[T any](c *Container, token Token) (T, error) {
	var zero T
	v, err := c.Resolve(token)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: token %q resolved to %T, want %T", token, v, zero)
	}
	return typed, nil
}

// MustResolveAs panics when the token is missing or the type does not
// match, for startup wiring.
func MustResolveAs[T any](c *Container, token Token) T {
	v, err := Resolve[T](c, token)
	if err != nil {
		panic(err)
	}
	return v
}
