package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthModule struct {
	AppName string
	Env     string
}

func NewHealthModule(appName, env string) *HealthModule {
	return &HealthModule{AppName: appName, Env: env}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": m.AppName, "env": m.Env})
	})
}
