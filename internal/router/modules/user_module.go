package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/paylight/bankcore/internal/interface/http"
	"github.com/paylight/bankcore/internal/interface/middleware"
)

// UserModule wires the user HTTP handlers into routes.
// All routes are registered under the given RouterGroup (usually /api).
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Creation is limited harder than the rest; private IPs bypass.
	// Other writes are limited per route so a burst on one endpoint does
	// not starve the others.
	createLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	writeLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", createLimiter, m.Handler.Create)
	rg.GET("/users", m.Handler.List)
	rg.GET("/users/search", m.Handler.Search)
	rg.GET("/users/:id", m.Handler.Get)
	rg.DELETE("/users/:id", writeLimiter, m.Handler.Delete)
	rg.PUT("/users/:id/name", writeLimiter, m.Handler.Rename)
	rg.POST("/users/:id/verify-email", writeLimiter, m.Handler.VerifyEmail)
	rg.POST("/users/:id/credit", writeLimiter, m.Handler.Credit)
	rg.POST("/users/:id/debit", writeLimiter, m.Handler.Debit)
	rg.POST("/transfers", writeLimiter, m.Handler.Transfer)
}
