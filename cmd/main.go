package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/paylight/bankcore/config"
	userapp "github.com/paylight/bankcore/internal/application"
	"github.com/paylight/bankcore/internal/container"
	"github.com/paylight/bankcore/internal/domain/event"
	"github.com/paylight/bankcore/internal/domain/repository"
	"github.com/paylight/bankcore/internal/events"
	"github.com/paylight/bankcore/internal/infrastructure/postgres"
	"github.com/paylight/bankcore/internal/infrastructure/rediscache"
	"github.com/paylight/bankcore/internal/interface/middleware"
	"github.com/paylight/bankcore/internal/notification"
	"github.com/paylight/bankcore/internal/router"
	"github.com/paylight/bankcore/pkg/helpers"
	"github.com/paylight/bankcore/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Postgres pool and migrations
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Elasticsearch is optional: search degrades, the kernel keeps working.
	esClient, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("elasticsearch unavailable, search disabled")
		esClient = nil
	}

	// RabbitMQ publishers are optional too; without a broker, welcome
	// notifications are skipped and events stay in-process.
	eventPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventQueue)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("rabbitmq unavailable, event relay disabled")
		eventPub = nil
	}
	defer eventPub.Close()

	emailPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("rabbitmq unavailable, welcome notifications disabled")
		emailPub = nil
	}
	defer emailPub.Close()

	c := buildContainer(cfg, logger, pool, rdb, esClient, eventPub, emailPub)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildContainer registers every component the HTTP modules resolve. The
// container is constructed here and passed down explicitly; nothing in the
// kernel reaches for globals.
func buildContainer(cfg *config.Config, logger *logrus.Logger, pool *pgxpool.Pool, rdb *redis.Client, es *elasticsearch.Client, eventPub, emailPub *helpers.RabbitPublisher) *container.Container {
	c := container.New()

	c.RegisterInstance(container.TokenConfig, cfg)
	c.RegisterInstance(container.TokenLogger, logger)
	c.RegisterInstance(container.TokenPGPool, pool)
	c.RegisterInstance(container.TokenRedis, rdb)
	c.RegisterInstance(container.TokenES, es)
	c.RegisterInstance(container.TokenRabbitPub, eventPub)

	c.RegisterSingleton(container.TokenUserRepository, func(*container.Container) (any, error) {
		var repo repository.UserRepository = postgres.NewUserRepository(pool)
		if cfg.CacheEnabled {
			repo = rediscache.NewUserRepository(repo, rdb, cfg.UserCacheTTL, logger)
		}
		return repo, nil
	})

	c.RegisterSingleton(container.TokenEventPublisher, func(*container.Container) (any, error) {
		pub := events.NewPublisher(logger)
		if eventPub != nil {
			relay := events.AMQPRelay(eventPub)
			pub.Subscribe(event.UserCreated, relay)
			pub.Subscribe(event.UserBalanceUpdated, relay)
		}
		return pub, nil
	})

	c.RegisterSingleton(container.TokenNotifier, func(*container.Container) (any, error) {
		if emailPub != nil && cfg.MailSendEnabled {
			return notification.NewQueueService(emailPub), nil
		}
		return notification.NoopService{Logger: logger}, nil
	})

	c.RegisterSingleton(container.TokenUserService, func(c *container.Container) (any, error) {
		repo, err := container.Resolve[repository.UserRepository](c, container.TokenUserRepository)
		if err != nil {
			return nil, err
		}
		pub, err := container.Resolve[*events.Publisher](c, container.TokenEventPublisher)
		if err != nil {
			return nil, err
		}
		notifier, err := container.Resolve[notification.Service](c, container.TokenNotifier)
		if err != nil {
			return nil, err
		}
		return userapp.NewService(repo, pub, notifier, logger, es, cfg.ESUsersIndex, cfg.DefaultCurrency), nil
	})

	return c
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
