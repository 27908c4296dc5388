package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ruizTechServices/new-main-1/internal/gateway"
)

type ProviderHandler struct {
	service gateway.Service
}

func NewProviderHandler(service gateway.Service) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// ListProviders reports which providers can be used and their model catalog.
// GET /api/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.service.Providers(),
	})
}
