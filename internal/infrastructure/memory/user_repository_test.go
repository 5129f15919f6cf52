package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paylight/bankcore/internal/domain/entity"
	"github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/domain/valueobject"
)

func newUser(t *testing.T, emailAddr, name string, balance float64) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmail(emailAddr)
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	var opening *valueobject.Money
	if balance > 0 {
		m, err := valueobject.NewMoney(balance, "USD")
		if err != nil {
			t.Fatalf("NewMoney: %v", err)
		}
		opening = &m
	}
	u, err := entity.NewUser(email, name, opening)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	return u
}

func TestUserRepository_SaveAndFindByID(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "a@b.com", "John Doe", 50)

	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	found, err := repo.FindByID(ctx, u.ID())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatalf("expected user, got nil")
	}
	if !found.ID().Equals(u.ID()) || found.Name() != "John Doe" {
		t.Fatalf("unexpected user: %s %s", found.ID(), found.Name())
	}
	// reads rebuild the aggregate, instances are never shared
	if found == u {
		t.Fatalf("repository must not return the stored instance")
	}
}

func TestUserRepository_FindByID_AbsentReturnsNilNil(t *testing.T) {
	repo := NewUserRepository()

	found, err := repo.FindByID(context.Background(), valueobject.NewUserID())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil user for absent id")
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "a@b.com", "John Doe", 0)
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	email, _ := valueobject.NewEmail("A@B.com")
	found, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil || !found.ID().Equals(u.ID()) {
		t.Fatalf("expected the saved user")
	}

	other, _ := valueobject.NewEmail("missing@b.com")
	found, err = repo.FindByEmail(ctx, other)
	if err != nil || found != nil {
		t.Fatalf("absent email: expected nil, nil; got %v, %v", found, err)
	}
}

func TestUserRepository_SaveIsUpsert(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "a@b.com", "John Doe", 0)
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := u.ChangeName("Jane Doe"); err != nil {
		t.Fatalf("ChangeName: %v", err)
	}
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	found, err := repo.FindByID(ctx, u.ID())
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v, %v", found, err)
	}
	if found.Name() != "Jane Doe" {
		t.Fatalf("expected updated name, got %q", found.Name())
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(all))
	}
}

func TestUserRepository_DeleteAndExists(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "a@b.com", "John Doe", 0)
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := repo.Exists(ctx, u.ID())
	if err != nil || !ok {
		t.Fatalf("expected user to exist")
	}
	ok, err = repo.ExistsByEmail(ctx, u.Email())
	if err != nil || !ok {
		t.Fatalf("expected email to exist")
	}

	if err := repo.Delete(ctx, u.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = repo.Exists(ctx, u.ID())
	if err != nil || ok {
		t.Fatalf("expected user gone after delete")
	}

	// deleting an absent id is a no-op
	if err := repo.Delete(ctx, u.ID()); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestUserRepository_Queries(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	rich := newUser(t, "rich@b.com", "Rich User", 1000)
	poor := newUser(t, "poor@b.com", "Poor User", 10)
	verified := newUser(t, "done@b.com", "Verified User", 0)
	if err := verified.VerifyEmail(); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if err := repo.SaveMany(ctx, []*entity.User{rich, poor, verified}); err != nil {
		t.Fatalf("SaveMany: %v", err)
	}

	vs, err := repo.FindVerifiedUsers(ctx)
	if err != nil {
		t.Fatalf("FindVerifiedUsers: %v", err)
	}
	if len(vs) != 1 || !vs[0].ID().Equals(verified.ID()) {
		t.Fatalf("expected only the verified user, got %d", len(vs))
	}

	threshold, _ := valueobject.NewMoney(100, "USD")
	wealthy, err := repo.FindUsersWithBalanceGreaterThan(ctx, threshold)
	if err != nil {
		t.Fatalf("FindUsersWithBalanceGreaterThan: %v", err)
	}
	if len(wealthy) != 1 || !wealthy[0].ID().Equals(rich.ID()) {
		t.Fatalf("expected only the rich user, got %d", len(wealthy))
	}

	recent, err := repo.FindRecentUsers(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("FindRecentUsers: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected all 3 recent users, got %d", len(recent))
	}
	recent, err = repo.FindRecentUsers(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("FindRecentUsers: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no users created in the future, got %d", len(recent))
	}
}

func TestUserRepository_FindByIDs_SkipsAbsent(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	a := newUser(t, "a@b.com", "User A", 0)
	b := newUser(t, "b@b.com", "User B", 0)
	if err := repo.SaveMany(ctx, []*entity.User{a, b}); err != nil {
		t.Fatalf("SaveMany: %v", err)
	}

	got, err := repo.FindByIDs(ctx, []valueobject.UserID{a.ID(), valueobject.NewUserID(), b.ID()})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
}

func TestUserRepository_WithTransaction_CommitsOnSuccess(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "a@b.com", "John Doe", 0)

	err := repo.WithTransaction(ctx, func(tx repository.UserRepository) error {
		return tx.Save(ctx, u)
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	found, err := repo.FindByID(ctx, u.ID())
	if err != nil || found == nil {
		t.Fatalf("expected committed user, got %v, %v", found, err)
	}
}

func TestUserRepository_WithTransaction_RollsBackOnError(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	kept := newUser(t, "kept@b.com", "Kept User", 0)
	if err := repo.Save(ctx, kept); err != nil {
		t.Fatalf("Save: %v", err)
	}

	boom := errors.New("boom")
	discarded := newUser(t, "lost@b.com", "Lost User", 0)
	err := repo.WithTransaction(ctx, func(tx repository.UserRepository) error {
		if err := tx.Save(ctx, discarded); err != nil {
			return err
		}
		if err := tx.Delete(ctx, kept.ID()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	found, err := repo.FindByID(ctx, discarded.ID())
	if err != nil || found != nil {
		t.Fatalf("rolled back save must not be visible")
	}
	found, err = repo.FindByID(ctx, kept.ID())
	if err != nil || found == nil {
		t.Fatalf("rolled back delete must restore the row")
	}
}

func TestUserRepository_WithTransaction_ScopedRepoClosesAfterCallback(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	var leaked repository.UserRepository
	err := repo.WithTransaction(ctx, func(tx repository.UserRepository) error {
		leaked = tx
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	if err := leaked.Save(ctx, newUser(t, "late@b.com", "Late User", 0)); err == nil {
		t.Fatalf("writes through an escaped transaction must fail")
	}
}
