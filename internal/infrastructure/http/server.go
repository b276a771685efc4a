package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/outreachly/crm-sync/internal/adapter/handler/http"
	"github.com/outreachly/crm-sync/internal/config"
	"github.com/outreachly/crm-sync/internal/middleware/auth"
	"github.com/outreachly/crm-sync/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	config      *config.Config
	logger      *zap.Logger
	echo        *echo.Echo
	syncService *usecase.SyncService
}

func NewServer(cfg *config.Config, logger *zap.Logger, syncService *usecase.SyncService) *Server {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	return &Server{
		config:      cfg,
		logger:      logger,
		echo:        e,
		syncService: syncService,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "crm-sync",
		})
	})

	syncHandler := handlers.NewSyncHandler(s.syncService, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
		},
	}

	// API v1 routes (all require JWT authentication)
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	crm := v1.Group("/crm")
	crm.GET("/connections", syncHandler.GetConnections)
	crm.POST("/leads/:id/sync", syncHandler.SyncLead)
	crm.POST("/leads/:id/sync-all", syncHandler.SyncLeadToAll)
	crm.GET("/leads/:id/status", syncHandler.GetSyncStatus)
}
