package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/paylight/bankcore/config"
	userapp "github.com/paylight/bankcore/internal/application"
	"github.com/paylight/bankcore/internal/events"
	"github.com/paylight/bankcore/internal/infrastructure/postgres"
	"github.com/paylight/bankcore/internal/notification"
	"github.com/paylight/bankcore/pkg/helpers"
)

func floatPtr(f float64) *float64 { return &f }

// seed creates a handful of demo accounts through the real use case so
// invariants and events behave exactly as in production.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewUserRepository(pool)
	svc := userapp.NewService(repo, events.NewPublisher(logger), notification.NoopService{Logger: logger}, logger, nil, "", cfg.DefaultCurrency)

	seeds := []userapp.CreateUserRequest{
		{Email: "ada@paylight.dev", Name: "Ada Obi", InitialBalance: floatPtr(2500), Currency: "NGN"},
		{Email: "kofi@paylight.dev", Name: "Kofi Mensah", InitialBalance: floatPtr(150.75), Currency: "GHS"},
		{Email: "jane@paylight.dev", Name: "Jane Doe"},
	}

	for _, req := range seeds {
		res := svc.CreateUser(ctx, req)
		if !res.Success {
			logger.WithField("email", req.Email).Warnf("seed skipped: %s", res.Message)
			continue
		}
		logger.WithField("user_id", res.UserID).Infof("seeded %s", res.Email)
	}
}
