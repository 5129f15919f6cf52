package router

import (
	"github.com/redis/go-redis/v9"

	userapp "github.com/paylight/bankcore/internal/application"
	"github.com/paylight/bankcore/config"
	"github.com/paylight/bankcore/internal/container"
	handlers "github.com/paylight/bankcore/internal/interface/http"
	"github.com/paylight/bankcore/internal/router/modules"
)

// InitModules builds the HTTP modules from the container and registers
// them with the router registry. Called once during startup; any missing
// registration is a wiring bug and panics here rather than at request
// time.
func InitModules(reg *Registry, c *container.Container) {
	cfg := container.MustResolveAs[*config.Config](c, container.TokenConfig)
	svc := container.MustResolveAs[*userapp.Service](c, container.TokenUserService)
	rdb := container.MustResolveAs[*redis.Client](c, container.TokenRedis)

	handler := handlers.NewUserHandler(svc, svc.Logger)

	reg.Add(modules.NewHealthModule(cfg.AppName, cfg.Env))
	reg.Add(modules.NewUserModule(handler, rdb))
}
