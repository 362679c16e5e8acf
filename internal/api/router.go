package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/api/middleware"
	"github.com/liliang-cn/aichat/internal/api/rest"
	"github.com/liliang-cn/aichat/internal/api/web"
	"github.com/liliang-cn/aichat/internal/service"
)

// Services bundles what the handlers need
type Services struct {
	Auth      *service.AuthService
	Chat      *service.ChatService
	Documents *service.DocumentService
	Threads   *service.ThreadService
	Sessions  *middleware.Sessions
}

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(svc Services, cfg RouterConfig, logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	r.Use(middleware.CORS(cfg.AllowOrigins))

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := SetupStaticRoutes(r); err != nil {
		return nil, fmt.Errorf("failed to mount assets: %w", err)
	}

	// Every route below sees the session, if any
	r.Use(svc.Sessions.Load())

	pages := web.NewHandler(svc.Auth, svc.Chat, svc.Documents, svc.Threads, svc.Sessions, logger)
	pages.RegisterRoutes(r)

	api := rest.NewHandler(svc.Auth, svc.Chat, svc.Documents, svc.Threads, svc.Sessions)
	api.RegisterRoutes(r.Group("/api"))

	return r, nil
}
