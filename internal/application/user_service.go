package application

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/paylight/bankcore/internal/domain"
	"github.com/paylight/bankcore/internal/domain/entity"
	repo "github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/domain/valueobject"
	"github.com/paylight/bankcore/internal/events"
	"github.com/paylight/bankcore/internal/notification"
)

// Service orchestrates user use cases: validate input, drive the
// aggregate, persist, flush domain events, fire side effects. It is the
// single boundary that converts every failure into a UserResult instead of
// letting errors leak to transport.
type Service struct {
	Repo            repo.UserRepository
	Publisher       *events.Publisher
	Notifier        notification.Service
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESUsersIndex    string
	DefaultCurrency string
}

func NewService(r repo.UserRepository, pub *events.Publisher, notifier notification.Service, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex, defaultCurrency string) *Service {
	if defaultCurrency == "" {
		defaultCurrency = entity.DefaultCurrencyCode
	}
	return &Service{
		Repo:            r,
		Publisher:       pub,
		Notifier:        notifier,
		Logger:          logger,
		ES:              es,
		ESUsersIndex:    esUsersIndex,
		DefaultCurrency: defaultCurrency,
	}
}

// CreateUserRequest is the inbound shape for user creation.
type CreateUserRequest struct {
	Email          string
	Name           string
	InitialBalance *float64
	Currency       string
}

// UserResult is the uniform outcome of a user use case. Success=false
// carries a human-readable message; identity fields are only set on
// success.
type UserResult struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserView is the read-model row returned by queries.
type UserView struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Balance         float64   `json:"balance"`
	Currency        string    `json:"currency"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func viewOf(u *entity.User) UserView {
	s := u.Snapshot()
	return UserView{
		UserID:          s.ID,
		Email:           s.Email,
		Name:            s.Name,
		Balance:         s.Balance,
		Currency:        s.Currency,
		IsEmailVerified: s.IsEmailVerified,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func okResult(u *entity.User, message string) UserResult {
	return UserResult{
		UserID:  u.ID().Value(),
		Email:   u.Email().Value(),
		Name:    u.Name(),
		Success: true,
		Message: message,
	}
}

// failResult maps an error to a failure outcome. Domain errors carry their
// own message; anything else is an infrastructure fault, logged and
// replaced with a generic message so internals never reach the caller.
func (s *Service) failResult(err error, fallback string) UserResult {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return UserResult{Success: false, Message: dErr.Message}
	}
	if s.Logger != nil {
		s.Logger.WithField("error", err.Error()).Error(fallback)
	}
	return UserResult{Success: false, Message: fallback}
}

// CreateUser validates the request, builds the aggregate, persists it,
// publishes the recorded events, and enqueues a welcome notification.
// Events are published only after Save succeeds; the notification is
// best-effort and can never change the outcome.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) UserResult {
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return s.failResult(err, "failed to create user")
	}

	// The opening balance always goes through the configured default
	// currency when the request does not name one, including the
	// zero-balance case.
	code := req.Currency
	if code == "" {
		code = s.DefaultCurrency
	}
	amount := 0.0
	if req.InitialBalance != nil {
		amount = *req.InitialBalance
	}
	initial, err := valueobject.NewMoney(amount, code)
	if err != nil {
		return s.failResult(err, "failed to create user")
	}

	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return s.failResult(err, "failed to create user")
	}
	if exists {
		return s.failResult(domain.ErrUserAlreadyExists, "failed to create user")
	}

	u, err := entity.NewUser(email, req.Name, &initial)
	if err != nil {
		return s.failResult(err, "failed to create user")
	}

	if err := s.Repo.Save(ctx, u); err != nil {
		return s.failResult(err, "failed to create user")
	}

	s.flushEvents(ctx, u)

	if s.Notifier != nil {
		if err := s.Notifier.SendWelcomeNotification(ctx, u.Email().Value(), u.Name()); err != nil && s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"user_id": u.ID().Value(),
				"error":   err.Error(),
			}).Warn("welcome notification failed")
		}
	}

	s.indexUser(ctx, u)

	return okResult(u, "User created successfully")
}

// flushEvents publishes the aggregate's pending events and clears the
// buffer. Must only run after persistence succeeded.
func (s *Service) flushEvents(ctx context.Context, u *entity.User) {
	if s.Publisher != nil {
		s.Publisher.PublishMany(ctx, u.DomainEvents())
	}
	u.ClearDomainEvents()
}

func (s *Service) loadUser(ctx context.Context, rawID string) (*entity.User, error) {
	id, err := valueobject.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// GetUser returns the read model for one user.
func (s *Service) GetUser(ctx context.Context, rawID string) (*UserView, error) {
	u, err := s.loadUser(ctx, rawID)
	if err != nil {
		return nil, err
	}
	v := viewOf(u)
	return &v, nil
}

// GetUserByEmail returns the read model for a user looked up by email.
func (s *Service) GetUserByEmail(ctx context.Context, rawEmail string) (*UserView, error) {
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	v := viewOf(u)
	return &v, nil
}

// CreditUser adds funds to a user's balance.
func (s *Service) CreditUser(ctx context.Context, rawID string, amount float64, currency string) UserResult {
	return s.mutateBalance(ctx, rawID, amount, currency, "failed to credit user", "Balance credited successfully",
		func(u *entity.User, m valueobject.Money) error { return u.Credit(m) })
}

// DebitUser removes funds from a user's balance.
func (s *Service) DebitUser(ctx context.Context, rawID string, amount float64, currency string) UserResult {
	return s.mutateBalance(ctx, rawID, amount, currency, "failed to debit user", "Balance debited successfully",
		func(u *entity.User, m valueobject.Money) error { return u.Debit(m) })
}

func (s *Service) mutateBalance(ctx context.Context, rawID string, amount float64, currency, fallback, okMessage string, mutate func(*entity.User, valueobject.Money) error) UserResult {
	u, err := s.loadUser(ctx, rawID)
	if err != nil {
		return s.failResult(err, fallback)
	}
	if currency == "" {
		currency = u.Balance().Currency().Code()
	}
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return s.failResult(err, fallback)
	}
	if err := mutate(u, m); err != nil {
		return s.failResult(err, fallback)
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return s.failResult(err, fallback)
	}
	s.flushEvents(ctx, u)
	s.indexUser(ctx, u)
	return okResult(u, okMessage)
}

// TransferBalance atomically moves funds between two users. Both writes
// happen inside one repository transaction; events from both aggregates
// are published only after the transaction commits.
func (s *Service) TransferBalance(ctx context.Context, fromID, toID string, amount float64, currency string) UserResult {
	from, err := s.loadUser(ctx, fromID)
	if err != nil {
		return s.failResult(err, "failed to transfer balance")
	}
	to, err := s.loadUser(ctx, toID)
	if err != nil {
		return s.failResult(err, "failed to transfer balance")
	}
	if currency == "" {
		currency = from.Balance().Currency().Code()
	}
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return s.failResult(err, "failed to transfer balance")
	}

	if err := from.Debit(m); err != nil {
		return s.failResult(err, "failed to transfer balance")
	}
	if err := to.Credit(m); err != nil {
		return s.failResult(err, "failed to transfer balance")
	}

	err = s.Repo.WithTransaction(ctx, func(txRepo repo.UserRepository) error {
		if err := txRepo.Save(ctx, from); err != nil {
			return err
		}
		return txRepo.Save(ctx, to)
	})
	if err != nil {
		return s.failResult(err, "failed to transfer balance")
	}

	s.flushEvents(ctx, from)
	s.flushEvents(ctx, to)
	s.indexUser(ctx, from)
	s.indexUser(ctx, to)
	return okResult(from, "Balance transferred successfully")
}

// VerifyUserEmail drives the one-way verification transition.
func (s *Service) VerifyUserEmail(ctx context.Context, rawID string) UserResult {
	u, err := s.loadUser(ctx, rawID)
	if err != nil {
		return s.failResult(err, "failed to verify email")
	}
	if err := u.VerifyEmail(); err != nil {
		return s.failResult(err, "failed to verify email")
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return s.failResult(err, "failed to verify email")
	}
	s.flushEvents(ctx, u)
	s.indexUser(ctx, u)
	return okResult(u, "Email verified successfully")
}

// RenameUser changes the user's display name.
func (s *Service) RenameUser(ctx context.Context, rawID, newName string) UserResult {
	u, err := s.loadUser(ctx, rawID)
	if err != nil {
		return s.failResult(err, "failed to rename user")
	}
	if err := u.ChangeName(newName); err != nil {
		return s.failResult(err, "failed to rename user")
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return s.failResult(err, "failed to rename user")
	}
	s.flushEvents(ctx, u)
	s.indexUser(ctx, u)
	return okResult(u, "User renamed successfully")
}

// DeleteUser removes the aggregate from persistence.
func (s *Service) DeleteUser(ctx context.Context, rawID string) UserResult {
	u, err := s.loadUser(ctx, rawID)
	if err != nil {
		return s.failResult(err, "failed to delete user")
	}
	if err := s.Repo.Delete(ctx, u.ID()); err != nil {
		return s.failResult(err, "failed to delete user")
	}
	return okResult(u, "User deleted successfully")
}

// ListUsers returns all users as read models.
func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	return s.toViews(s.Repo.FindAll(ctx))
}

// ListVerifiedUsers returns users whose email is verified.
func (s *Service) ListVerifiedUsers(ctx context.Context) ([]UserView, error) {
	return s.toViews(s.Repo.FindVerifiedUsers(ctx))
}

// ListRecentUsers returns users created within the given window.
func (s *Service) ListRecentUsers(ctx context.Context, window time.Duration) ([]UserView, error) {
	return s.toViews(s.Repo.FindRecentUsers(ctx, time.Now().UTC().Add(-window)))
}

// ListUsersWithBalanceAbove returns users whose balance in the given
// currency exceeds the threshold.
func (s *Service) ListUsersWithBalanceAbove(ctx context.Context, amount float64, currency string) ([]UserView, error) {
	if currency == "" {
		currency = s.DefaultCurrency
	}
	threshold, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	return s.toViews(s.Repo.FindUsersWithBalanceGreaterThan(ctx, threshold))
}

func (s *Service) toViews(users []*entity.User, err error) ([]UserView, error) {
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOf(u))
	}
	return views, nil
}
