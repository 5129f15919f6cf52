package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/paylight/bankcore/internal/domain/event"
)

// Handler consumes a published domain event.
type Handler func(ctx context.Context, e event.Event) error

// Publisher dispatches domain events to subscribed handlers. The registry
// belongs to the instance; it is built once in main and shared by
// reference, never through package-level state. A failing handler is
// logged and skipped so one broken subscriber cannot starve the others.
type Publisher struct {
	mu       sync.RWMutex
	handlers map[event.Name][]Handler
	logger   *logrus.Logger
}

func NewPublisher(logger *logrus.Logger) *Publisher {
	return &Publisher{
		handlers: make(map[event.Name][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event name.
func (p *Publisher) Subscribe(name event.Name, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[name] = append(p.handlers[name], h)
}

// Unsubscribe drops every handler registered for an event name.
func (p *Publisher) Unsubscribe(name event.Name) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.handlers, name)
}

// HandlerCount reports how many handlers are registered for an event name.
func (p *Publisher) HandlerCount(name event.Name) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers[name])
}

// Publish invokes every handler registered for e.Name. All handlers run
// before Publish returns; errors and panics are contained per handler.
func (p *Publisher) Publish(ctx context.Context, e event.Event) {
	p.mu.RLock()
	hs := make([]Handler, len(p.handlers[e.Name]))
	copy(hs, p.handlers[e.Name])
	p.mu.RUnlock()

	for _, h := range hs {
		p.invoke(ctx, h, e)
	}
}

// PublishMany publishes events in order. Every event is attempted even
// when earlier ones had handler failures.
func (p *Publisher) PublishMany(ctx context.Context, evts []event.Event) {
	for _, e := range evts {
		p.Publish(ctx, e)
	}
}

func (p *Publisher) invoke(ctx context.Context, h Handler, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logFailure(e, fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := h(ctx, e); err != nil {
		p.logFailure(e, err)
	}
}

func (p *Publisher) logFailure(e event.Event, err error) {
	if p.logger == nil {
		return
	}
	p.logger.WithFields(logrus.Fields{
		"event_id":     e.EventID,
		"event_name":   e.Name,
		"aggregate_id": e.AggregateID,
		"error":        err.Error(),
	}).Error("event handler failed")
}
