package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ruizTechServices/new-main-1/internal/server/middleware"
	v1 "github.com/ruizTechServices/new-main-1/internal/server/v1"
	"github.com/ruizTechServices/new-main-1/internal/server/validator"
	"github.com/ruizTechServices/new-main-1/internal/server/web"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	if s.config.Metrics.Enabled {
		s.router.GET(s.config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// presentation client
	s.router.GET("/", web.Index)

	api := s.router.Group("/api")
	{
		chatHandler := v1.NewChatHandler(s.service, validator.New())
		api.POST("/chat", chatHandler.CreateCompletion)

		providerHandler := v1.NewProviderHandler(s.service)
		api.GET("/providers", providerHandler.ListProviders)
	}
}
