package valueobject

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/paylight/bankcore/internal/domain"
)

// UserID is the aggregate identity, a UUIDv4 assigned once at creation.
type UserID struct {
	value string
}

// NewUserID generates a fresh identity.
func NewUserID() UserID {
	return UserID{value: uuid.NewString()}
}

// ParseUserID validates a stored or user-supplied identifier.
func ParseUserID(raw string) (UserID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return UserID{}, fmt.Errorf("%w: %q", domain.ErrInvalidUserID, raw)
	}
	return UserID{value: id.String()}, nil
}

func (id UserID) Value() string  { return id.value }
func (id UserID) String() string { return id.value }

func (id UserID) Equals(other UserID) bool { return id.value == other.value }

func (id UserID) IsZero() bool { return id.value == "" }
