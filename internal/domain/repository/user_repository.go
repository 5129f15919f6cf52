package repository

import (
	"context"
	"time"

	"github.com/paylight/bankcore/internal/domain/entity"
	"github.com/paylight/bankcore/internal/domain/valueobject"
)

// UserRepository is the persistence port for the user aggregate. Absence is
// not an error: FindByID and FindByEmail return (nil, nil) when nothing
// matches and callers must branch on presence. Adapters exchange only the
// flat snapshot with their storage; the aggregate is rebuilt through
// entity.FromSnapshot on every load, so concurrent callers always hold
// independent copies.
type UserRepository interface {
	// Save upserts the aggregate by identity.
	Save(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id valueobject.UserID) (*entity.User, error)
	FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	Delete(ctx context.Context, id valueobject.UserID) error

	// Existence checks for pre-conditions that do not need the full aggregate.
	Exists(ctx context.Context, id valueobject.UserID) (bool, error)
	ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error)

	// Read-only projections.
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindVerifiedUsers(ctx context.Context) ([]*entity.User, error)
	FindUsersWithBalanceGreaterThan(ctx context.Context, threshold valueobject.Money) ([]*entity.User, error)
	FindRecentUsers(ctx context.Context, since time.Time) ([]*entity.User, error)

	// Batch operations.
	SaveMany(ctx context.Context, users []*entity.User) error
	FindByIDs(ctx context.Context, ids []valueobject.UserID) ([]*entity.User, error)

	// WithTransaction runs op against a repository scoped to one atomic unit
	// of work. If op returns an error every write inside it is rolled back.
	// The scoped repository must not escape the callback.
	WithTransaction(ctx context.Context, op func(UserRepository) error) error
}
