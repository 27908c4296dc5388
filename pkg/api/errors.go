package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrStreamUnavailable is returned when a streaming call produced something
// the gateway cannot drain incrementally.
var ErrStreamUnavailable = errors.New("Provider did not return a stream")

// Issue is one field-level validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports a malformed or out-of-range request.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Path+": "+i.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConfigurationError means the provider's credential was missing or invalid
// when the registry was bootstrapped.
type ConfigurationError struct {
	Provider Provider
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured: %s", e.Provider, e.Reason)
}

// UnsupportedProviderError means no adapter is wired for the provider.
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Unsupported provider: %s", e.Provider)
}

// UpstreamError tags an error raised by a provider call. Its message is the
// upstream message, untouched.
type UpstreamError struct {
	Provider Provider
	Err      error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode maps an error from the taxonomy onto the HTTP status returned to the caller.
func StatusCode(err error) int {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Body renders err as the JSON error body for the caller.
func Body(err error) ErrorResponse {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ErrorResponse{Error: verr.Issues}
	}
	return ErrorResponse{Error: err.Error()}
}
