package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient defines the interface for an HTTP client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrorParser extracts a human readable message from an upstream error body.
type ErrorParser func(body []byte) string

func newRequest(ctx context.Context, method, url string, headers map[string]string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// do sends req and turns any non-2xx response into an *UpstreamError.
func do(client HTTPClient, req *http.Request, parse ErrorParser) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() {
			_ = resp.Body.Close()
		}()
		respBody, _ := io.ReadAll(resp.Body)
		upstream := &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			URL:        req.URL.Redacted(),
		}
		if parse != nil {
			upstream.Message = parse(respBody)
		}
		return nil, upstream
	}

	return resp, nil
}

// SendRequest handles the common logic of creating a request, sending it, and checking the status code.
func SendRequest(ctx context.Context, client HTTPClient, method, url string, headers map[string]string, body interface{}, response interface{}, parse ErrorParser) error {
	req, err := newRequest(ctx, method, url, headers, body)
	if err != nil {
		return err
	}

	resp, err := do(client, req, parse)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// OpenStream sends a streaming request and returns the live response body.
// The caller owns the body and must close it.
func OpenStream(ctx context.Context, client HTTPClient, method, url string, headers map[string]string, body interface{}, parse ErrorParser) (io.ReadCloser, error) {
	req, err := newRequest(ctx, method, url, headers, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := do(client, req, parse)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
