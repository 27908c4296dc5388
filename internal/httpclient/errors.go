package httpclient

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
	// Message is the provider's own error text when it could be parsed from Body.
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// MessageFromBody pulls the error text out of the JSON error envelopes used by
// the chat vendors: {"error":{"message":...}}, {"message":...}, {"detail":...}
// or {"error":"..."}. It returns "" when none match.
func MessageFromBody(body []byte) string {
	for _, path := range []string{"error.message", "message", "detail.0.msg", "detail", "error"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}
