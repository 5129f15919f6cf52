package entity

import (
	"time"

	"github.com/paylight/bankcore/internal/domain/valueobject"
)

// UserSnapshot is the flat persistence shape of the aggregate. Repositories
// only ever see this; the rich object graph never crosses the storage
// boundary.
type UserSnapshot struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Balance         float64   `json:"balance"`
	Currency        string    `json:"currency"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snapshot flattens the aggregate to primitives. Pending events are not
// part of the snapshot; they live and die with the in-memory instance.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:              u.id.Value(),
		Email:           u.email.Value(),
		Name:            u.name,
		Balance:         u.balance.Float64(),
		Currency:        u.balance.Currency().Code(),
		IsEmailVerified: u.isEmailVerified,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
	}
}

// FromSnapshot rebuilds an aggregate from its stored shape. Every value
// object is reconstructed through its constructor, so corrupted rows fail
// loudly instead of producing an invalid aggregate. The restored instance
// starts with an empty event buffer.
func FromSnapshot(s UserSnapshot) (*User, error) {
	id, err := valueobject.ParseUserID(s.ID)
	if err != nil {
		return nil, err
	}
	email, err := valueobject.NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	name, err := validateName(s.Name)
	if err != nil {
		return nil, err
	}
	balance, err := valueobject.NewMoney(s.Balance, s.Currency)
	if err != nil {
		return nil, err
	}
	return &User{
		id:              id,
		email:           email,
		name:            name,
		balance:         balance,
		isEmailVerified: s.IsEmailVerified,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}, nil
}
