package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/paylight/bankcore/internal/domain/entity"
	"github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/domain/valueobject"
	"github.com/paylight/bankcore/pkg/helpers"
)

// UserRepository decorates another repository with a read-through snapshot
// cache keyed by user id. Cache trouble is never allowed to fail the
// operation; it is logged and the call falls through to the inner
// repository. Writes inside WithTransaction are recorded and their cache
// entries invalidated once the transaction commits.
type UserRepository struct {
	inner  repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(inner repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return "user:snapshot:" + id
}

func (r *UserRepository) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.WithField("error", err.Error()).Warn(msg)
	}
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := r.inner.Save(ctx, u); err != nil {
		return err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, cacheKey(u.ID().Value()), u.Snapshot(), r.ttl); err != nil {
		r.warn("user cache write failed", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id valueobject.UserID) (*entity.User, error) {
	var snap entity.UserSnapshot
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, cacheKey(id.Value()), &snap)
	if err != nil {
		r.warn("user cache read failed", err)
	} else if hit {
		if u, ferr := entity.FromSnapshot(snap); ferr == nil {
			return u, nil
		}
		// corrupted entry, fall through and refresh
		_ = helpers.RedisDel(ctx, r.rdb, cacheKey(id.Value()))
	}

	u, err := r.inner.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, cacheKey(id.Value()), u.Snapshot(), r.ttl); err != nil {
		r.warn("user cache write failed", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *UserRepository) Delete(ctx context.Context, id valueobject.UserID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := helpers.RedisDel(ctx, r.rdb, cacheKey(id.Value())); err != nil {
		r.warn("user cache invalidation failed", err)
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id valueobject.UserID) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	return r.inner.ExistsByEmail(ctx, email)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return r.inner.FindAll(ctx)
}

func (r *UserRepository) FindVerifiedUsers(ctx context.Context) ([]*entity.User, error) {
	return r.inner.FindVerifiedUsers(ctx)
}

func (r *UserRepository) FindUsersWithBalanceGreaterThan(ctx context.Context, threshold valueobject.Money) ([]*entity.User, error) {
	return r.inner.FindUsersWithBalanceGreaterThan(ctx, threshold)
}

func (r *UserRepository) FindRecentUsers(ctx context.Context, since time.Time) ([]*entity.User, error) {
	return r.inner.FindRecentUsers(ctx, since)
}

func (r *UserRepository) SaveMany(ctx context.Context, users []*entity.User) error {
	if err := r.inner.SaveMany(ctx, users); err != nil {
		return err
	}
	for _, u := range users {
		if err := helpers.RedisDel(ctx, r.rdb, cacheKey(u.ID().Value())); err != nil {
			r.warn("user cache invalidation failed", err)
		}
	}
	return nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []valueobject.UserID) ([]*entity.User, error) {
	return r.inner.FindByIDs(ctx, ids)
}

// WithTransaction delegates to the inner repository but records every id
// written through the transactional scope. After a successful commit the
// recorded entries are dropped from the cache so reads do not serve
// pre-transaction balances until the TTL expires.
func (r *UserRepository) WithTransaction(ctx context.Context, op func(repository.UserRepository) error) error {
	var touched []string
	err := r.inner.WithTransaction(ctx, func(tx repository.UserRepository) error {
		return op(&txRecorder{UserRepository: tx, touched: &touched})
	})
	if err != nil {
		return err
	}
	for _, id := range touched {
		if derr := helpers.RedisDel(ctx, r.rdb, cacheKey(id)); derr != nil {
			r.warn("user cache invalidation failed", derr)
		}
	}
	return nil
}

// txRecorder notes the ids of every aggregate written through a
// transactional repository so the decorator can invalidate them after
// commit. Reads pass straight through to the embedded scope.
type txRecorder struct {
	repository.UserRepository
	touched *[]string
}

func (t *txRecorder) Save(ctx context.Context, u *entity.User) error {
	if err := t.UserRepository.Save(ctx, u); err != nil {
		return err
	}
	*t.touched = append(*t.touched, u.ID().Value())
	return nil
}

func (t *txRecorder) SaveMany(ctx context.Context, users []*entity.User) error {
	if err := t.UserRepository.SaveMany(ctx, users); err != nil {
		return err
	}
	for _, u := range users {
		*t.touched = append(*t.touched, u.ID().Value())
	}
	return nil
}

func (t *txRecorder) Delete(ctx context.Context, id valueobject.UserID) error {
	if err := t.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	*t.touched = append(*t.touched, id.Value())
	return nil
}

func (t *txRecorder) WithTransaction(ctx context.Context, op func(repository.UserRepository) error) error {
	return t.UserRepository.WithTransaction(ctx, func(tx repository.UserRepository) error {
		return op(&txRecorder{UserRepository: tx, touched: t.touched})
	})
}

var _ repository.UserRepository = (*UserRepository)(nil)
