package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ruizTechServices/new-main-1/internal/gateway"
	"github.com/ruizTechServices/new-main-1/internal/server/middleware"
	"github.com/ruizTechServices/new-main-1/internal/server/validator"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

// ShapeCanonical asks for the provider-agnostic {provider, model, text} body
// instead of the raw provider payload.
const ShapeCanonical = "canonical"

type ChatHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewChatHandler(service gateway.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// CreateCompletion handles POST /api/chat.
func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	req, err := h.validator.Parse(c.Request.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Set(middleware.ProviderKey, string(req.Provider))

	resp, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if resp.Stream != nil {
		h.relay(c, resp)
		return
	}

	if c.Query("shape") == ShapeCanonical {
		c.JSON(http.StatusOK, gateway.Extract(resp.Provider, resp.Payload))
		return
	}

	// raw provider payload, untouched
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Payload)
}

// relay copies the event stream to the client, flushing after every read.
func (h *ChatHandler) relay(c *gin.Context, resp *gateway.Response) {
	defer func() {
		_ = resp.Stream.Close()
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Stream.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			c.Writer.Flush()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				_ = c.Error(&api.UpstreamError{Provider: resp.Provider, Err: err})
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
