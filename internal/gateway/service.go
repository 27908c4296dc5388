package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "github.com/ruizTechServices/new-main-1/internal/gateway"

// Registry is the read side of llm.Registry that the service depends on.
type Registry interface {
	Lookup(name api.Provider) (llm.Provider, error)
	Statuses() []api.ProviderStatus
}

// Service dispatches validated chat requests to provider adapters.
type Service interface {
	Chat(ctx context.Context, req *api.ChatRequest) (*Response, error)
	Providers() []api.ProviderStatus
}

type service struct {
	logger   *zap.Logger
	registry Registry
	metrics  *Metrics
}

func NewService(registry Registry, logger *zap.Logger, metrics *Metrics) Service {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &service{
		logger:   logger,
		registry: registry,
		metrics:  metrics,
	}
}

func (s *service) Providers() []api.ProviderStatus {
	return s.registry.Statuses()
}

func (s *service) Chat(ctx context.Context, req *api.ChatRequest) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gateway.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", string(req.Provider)),
		attribute.String("llm.model", req.Model),
		attribute.Bool("llm.stream", req.Stream),
	)

	start := time.Now()
	resp, err := s.dispatch(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = errorKind(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.observe(string(req.Provider), req.Stream, outcome, time.Since(start).Seconds())

	return resp, err
}

func (s *service) dispatch(ctx context.Context, req *api.ChatRequest) (*Response, error) {
	provider, err := s.registry.Lookup(req.Provider)
	if err != nil {
		s.logger.Warn("Provider unavailable", zap.String("provider", string(req.Provider)), zap.Error(err))
		return nil, err
	}

	reqClone := *req
	reqClone.Messages = FilterSystem(req.Messages)

	res, err := provider.Send(ctx, &reqClone)
	if err != nil {
		s.logger.Error("Provider call failed",
			zap.String("provider", string(req.Provider)),
			zap.String("model", req.Model),
			zap.Error(err),
		)
		return nil, &api.UpstreamError{Provider: req.Provider, Err: err}
	}

	resp, err := Normalize(ctx, res, req.Stream)
	if err != nil {
		if errors.Is(err, api.ErrStreamUnavailable) {
			return nil, err
		}
		return nil, &api.UpstreamError{Provider: req.Provider, Err: err}
	}
	resp.Provider = req.Provider
	return resp, nil
}

func errorKind(err error) string {
	var (
		cerr *api.ConfigurationError
		uerr *api.UnsupportedProviderError
	)
	switch {
	case errors.As(err, &cerr):
		return "unconfigured"
	case errors.As(err, &uerr):
		return "unsupported"
	case errors.Is(err, api.ErrStreamUnavailable):
		return "no_stream"
	default:
		return "upstream_error"
	}
}
