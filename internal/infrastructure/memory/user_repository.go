package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/paylight/bankcore/internal/domain/entity"
	"github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/domain/valueobject"
)

var errTxClosed = errors.New("transaction already completed")

// UserRepository is the in-memory reference adapter for the user
// repository port. It stores flat snapshots keyed by id and rebuilds the
// aggregate on every read, so callers never share an instance. Useful for
// tests and as the executable specification of the port's semantics.
type UserRepository struct {
	mu     sync.RWMutex
	byID   map[string]entity.UserSnapshot
	closed bool
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]entity.UserSnapshot)}
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errTxClosed
	}
	r.byID[u.ID().Value()] = u.Snapshot()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id valueobject.UserID) (*entity.User, error) {
	r.mu.RLock()
	snap, ok := r.byID[id.Value()]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return entity.FromSnapshot(snap)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, snap := range r.byID {
		if snap.Email == email.Value() {
			return entity.FromSnapshot(snap)
		}
	}
	return nil, nil
}

func (r *UserRepository) Delete(ctx context.Context, id valueobject.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errTxClosed
	}
	delete(r.byID, id.Value())
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id valueobject.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id.Value()]
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, snap := range r.byID {
		if snap.Email == email.Value() {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return r.findWhere(func(entity.UserSnapshot) bool { return true })
}

func (r *UserRepository) FindVerifiedUsers(ctx context.Context) ([]*entity.User, error) {
	return r.findWhere(func(s entity.UserSnapshot) bool { return s.IsEmailVerified })
}

func (r *UserRepository) FindUsersWithBalanceGreaterThan(ctx context.Context, threshold valueobject.Money) ([]*entity.User, error) {
	code := threshold.Currency().Code()
	amount := threshold.Float64()
	return r.findWhere(func(s entity.UserSnapshot) bool {
		return s.Currency == code && s.Balance > amount
	})
}

func (r *UserRepository) FindRecentUsers(ctx context.Context, since time.Time) ([]*entity.User, error) {
	return r.findWhere(func(s entity.UserSnapshot) bool {
		return !s.CreatedAt.Before(since)
	})
}

func (r *UserRepository) findWhere(match func(entity.UserSnapshot) bool) ([]*entity.User, error) {
	r.mu.RLock()
	snaps := make([]entity.UserSnapshot, 0, len(r.byID))
	for _, snap := range r.byID {
		if match(snap) {
			snaps = append(snaps, snap)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.Before(snaps[j].CreatedAt) })

	users := make([]*entity.User, 0, len(snaps))
	for _, snap := range snaps {
		u, err := entity.FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) SaveMany(ctx context.Context, users []*entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errTxClosed
	}
	for _, u := range users {
		r.byID[u.ID().Value()] = u.Snapshot()
	}
	return nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []valueobject.UserID) ([]*entity.User, error) {
	r.mu.RLock()
	snaps := make([]entity.UserSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := r.byID[id.Value()]; ok {
			snaps = append(snaps, snap)
		}
	}
	r.mu.RUnlock()

	users := make([]*entity.User, 0, len(snaps))
	for _, snap := range snaps {
		u, err := entity.FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// WithTransaction runs op against a clone of the store. On success the
// clone replaces the live state wholesale; any error discards it. The
// scoped repository is closed afterwards so it cannot leak writes outside
// the callback. Concurrent transactions resolve last-write-wins.
func (r *UserRepository) WithTransaction(ctx context.Context, op func(repository.UserRepository) error) error {
	r.mu.RLock()
	clone := make(map[string]entity.UserSnapshot, len(r.byID))
	for k, v := range r.byID {
		clone[k] = v
	}
	r.mu.RUnlock()

	tx := &UserRepository{byID: clone}
	err := op(tx)

	tx.mu.Lock()
	tx.closed = true
	tx.mu.Unlock()

	if err != nil {
		return err
	}

	r.mu.Lock()
	r.byID = clone
	r.mu.Unlock()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
