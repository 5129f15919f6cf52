package event

import (
	"time"

	"github.com/google/uuid"
)

// Name discriminates event variants. Dispatch happens on this tag, not on
// behavior attached to the events themselves.
type Name string

const (
	UserCreated        Name = "user.created"
	UserBalanceUpdated Name = "user.balance_updated"
)

// Event is an immutable fact recorded by an aggregate. It is a tagged
// variant: the shared envelope plus exactly one non-nil payload matching
// Name. Events are created inside the aggregate, drained by the use case
// after persistence succeeds, and then discarded.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredOn  time.Time `json:"occurred_on"`
	Name        Name      `json:"event_name"`
	AggregateID string    `json:"aggregate_id"`

	Created        *CreatedPayload        `json:"created,omitempty"`
	BalanceUpdated *BalanceUpdatedPayload `json:"balance_updated,omitempty"`
}

// CreatedPayload is carried by user.created.
type CreatedPayload struct {
	Email string `json:"email"`
}

// BalanceUpdatedPayload is carried by user.balance_updated. Amounts are
// plain numbers plus a currency code so external consumers never need the
// Money type.
type BalanceUpdatedPayload struct {
	PreviousBalance float64 `json:"previous_balance"`
	NewBalance      float64 `json:"new_balance"`
	Currency        string  `json:"currency"`
}

func newEnvelope(name Name, aggregateID string) Event {
	return Event{
		EventID:     uuid.NewString(),
		OccurredOn:  time.Now().UTC(),
		Name:        name,
		AggregateID: aggregateID,
	}
}

// NewUserCreated records that a user aggregate came into existence.
func NewUserCreated(userID, email string) Event {
	e := newEnvelope(UserCreated, userID)
	e.Created = &CreatedPayload{Email: email}
	return e
}

// NewUserBalanceUpdated records a balance transition.
func NewUserBalanceUpdated(userID string, previous, next float64, currency string) Event {
	e := newEnvelope(UserBalanceUpdated, userID)
	e.BalanceUpdated = &BalanceUpdatedPayload{
		PreviousBalance: previous,
		NewBalance:      next,
		Currency:        currency,
	}
	return e
}
