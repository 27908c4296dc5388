package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/gateway"
	"github.com/ruizTechServices/new-main-1/internal/server/middleware"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service gateway.Service
}

func New(cfg *config.Config, logger *zap.Logger, service gateway.Service) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:  engine,
		service: service,
		logger:  logger,
		config:  cfg,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
