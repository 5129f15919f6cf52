package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/paylight/bankcore/internal/domain"
	"github.com/paylight/bankcore/internal/domain/event"
	"github.com/paylight/bankcore/internal/domain/valueobject"
)

// DefaultCurrencyCode backs new accounts whose opening balance is not
// specified.
const DefaultCurrencyCode = "USD"

const minNameLength = 2

// User is the aggregate root. All invariant-preserving mutation of the
// balance, name and verification flag goes through its methods; the fields
// stay unexported so nothing outside this package can bypass them. The
// aggregate owns its value objects outright and records domain events into
// a pending buffer that the use case drains after persistence.
type User struct {
	id              valueobject.UserID
	email           valueobject.Email
	name            string
	balance         valueobject.Money
	isEmailVerified bool
	createdAt       time.Time
	updatedAt       time.Time

	pendingEvents []event.Event
}

// NewUser creates a user with a fresh identity and records user.created.
// The opening balance defaults to zero in DefaultCurrencyCode when nil.
func NewUser(email valueobject.Email, name string, initialBalance *valueobject.Money) (*User, error) {
	trimmed, err := validateName(name)
	if err != nil {
		return nil, err
	}

	balance, err := valueobject.ZeroMoney(DefaultCurrencyCode)
	if err != nil {
		return nil, err
	}
	if initialBalance != nil {
		balance = *initialBalance
	}

	now := time.Now().UTC()
	u := &User{
		id:        valueobject.NewUserID(),
		email:     email,
		name:      trimmed,
		balance:   balance,
		createdAt: now,
		updatedAt: now,
	}
	u.record(event.NewUserCreated(u.id.Value(), u.email.Value()))
	return u, nil
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minNameLength {
		return "", domain.ErrInvalidName
	}
	return trimmed, nil
}

func (u *User) ID() valueobject.UserID     { return u.id }
func (u *User) Email() valueobject.Email   { return u.email }
func (u *User) Name() string               { return u.name }
func (u *User) Balance() valueobject.Money { return u.balance }
func (u *User) IsEmailVerified() bool      { return u.isEmailVerified }
func (u *User) CreatedAt() time.Time       { return u.createdAt }
func (u *User) UpdatedAt() time.Time       { return u.updatedAt }

// Credit adds amount to the balance. The amount must be in the balance
// currency.
func (u *User) Credit(amount valueobject.Money) error {
	next, err := u.balance.Add(amount)
	if err != nil {
		return err
	}
	return u.UpdateBalance(next)
}

// Debit removes amount from the balance. Fails with ErrInsufficientFunds
// when amount exceeds the balance; the balance is untouched on failure.
func (u *User) Debit(amount valueobject.Money) error {
	over, err := amount.GreaterThan(u.balance)
	if err != nil {
		return err
	}
	if over {
		return domain.ErrInsufficientFunds
	}
	next, err := u.balance.Subtract(amount)
	if err != nil {
		return err
	}
	return u.UpdateBalance(next)
}

// UpdateBalance replaces the balance, recording user.balance_updated.
// The account currency is fixed at creation, so a replacement in another
// currency fails and leaves the balance untouched. Credit and Debit are
// the normal entry points.
func (u *User) UpdateBalance(next valueobject.Money) error {
	if !next.Currency().Equals(u.balance.Currency()) {
		return fmt.Errorf("%w: %s vs %s", domain.ErrCurrencyMismatch, u.balance.Currency(), next.Currency())
	}
	prev := u.balance
	u.balance = next
	u.touch()
	u.record(event.NewUserBalanceUpdated(
		u.id.Value(),
		prev.Float64(),
		next.Float64(),
		next.Currency().Code(),
	))
	return nil
}

// ChangeName renames the user under the same validation as creation.
func (u *User) ChangeName(newName string) error {
	trimmed, err := validateName(newName)
	if err != nil {
		return err
	}
	u.name = trimmed
	u.touch()
	return nil
}

// VerifyEmail flips the verification flag. The transition is one-way; a
// second call fails with ErrAlreadyVerified.
func (u *User) VerifyEmail() error {
	if u.isEmailVerified {
		return domain.ErrAlreadyVerified
	}
	u.isEmailVerified = true
	u.touch()
	return nil
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}

func (u *User) record(e event.Event) {
	u.pendingEvents = append(u.pendingEvents, e)
}

// DomainEvents returns a copy of the pending buffer. The use case must
// drain it only after persistence succeeds.
func (u *User) DomainEvents() []event.Event {
	out := make([]event.Event, len(u.pendingEvents))
	copy(out, u.pendingEvents)
	return out
}

// ClearDomainEvents empties the pending buffer.
func (u *User) ClearDomainEvents() {
	u.pendingEvents = nil
}
