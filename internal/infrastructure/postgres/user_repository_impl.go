package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paylight/bankcore/internal/domain/entity"
	"github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/domain/valueobject"
)

const userColumns = `id, email, name, balance, currency, is_email_verified, created_at, updated_at`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// statements serve plain and transactional repositories.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists user snapshots in Postgres via pgx.
type UserRepository struct {
	pool *pgxpool.Pool
	q    querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool, q: pool}
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	return r.save(ctx, u.Snapshot())
}

func (r *UserRepository) save(ctx context.Context, s entity.UserSnapshot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, email, name, balance, currency, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			balance = EXCLUDED.balance,
			currency = EXCLUDED.currency,
			is_email_verified = EXCLUDED.is_email_verified,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Email, s.Name, s.Balance, s.Currency, s.IsEmailVerified, s.CreatedAt, s.UpdatedAt)
	return err
}

func scanSnapshot(row pgx.Row) (entity.UserSnapshot, error) {
	var s entity.UserSnapshot
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.Balance, &s.Currency,
		&s.IsEmailVerified, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	s, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity.FromSnapshot(s)
}

func (r *UserRepository) FindByID(ctx context.Context, id valueobject.UserID) (*entity.User, error) {
	return r.findOne(ctx, `id = $1`, id.Value())
}

func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	return r.findOne(ctx, `email = $1`, email.Value())
}

func (r *UserRepository) Delete(ctx context.Context, id valueobject.UserID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.Value())
	return err
}

func (r *UserRepository) Exists(ctx context.Context, id valueobject.UserID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id.Value()).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.Value()).Scan(&exists)
	return exists, err
}

func (r *UserRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		u, err := entity.FromSnapshot(s)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

func (r *UserRepository) FindVerifiedUsers(ctx context.Context) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users WHERE is_email_verified ORDER BY created_at`)
}

func (r *UserRepository) FindUsersWithBalanceGreaterThan(ctx context.Context, threshold valueobject.Money) ([]*entity.User, error) {
	return r.findMany(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE currency = $1 AND balance > $2
		ORDER BY created_at
	`, threshold.Currency().Code(), threshold.Float64())
}

func (r *UserRepository) FindRecentUsers(ctx context.Context, since time.Time) ([]*entity.User, error) {
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users WHERE created_at >= $1 ORDER BY created_at`, since)
}

func (r *UserRepository) SaveMany(ctx context.Context, users []*entity.User) error {
	for _, u := range users {
		if err := r.save(ctx, u.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []valueobject.UserID) ([]*entity.User, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.Value()
	}
	return r.findMany(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY created_at`, raw)
}

// WithTransaction opens a pgx transaction and hands op a repository bound
// to it. A nested call on an already transactional repository joins the
// surrounding transaction instead of opening a new one.
func (r *UserRepository) WithTransaction(ctx context.Context, op func(repository.UserRepository) error) error {
	if r.pool == nil {
		return op(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	txRepo := &UserRepository{q: tx}
	if err := op(txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
