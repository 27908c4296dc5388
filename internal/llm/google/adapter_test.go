package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/httpclient"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatRequest(stream bool) *api.ChatRequest {
	return &api.ChatRequest{
		Provider: api.Google,
		Model:    "gemini-1.5-pro-latest",
		Messages: []api.ChatMessage{
			{Role: api.User, Content: "hello"},
			{Role: api.Assistant, Content: "hi"},
		},
		Stream:      stream,
		Temperature: 0.7,
		TopP:        0.9,
	}
}

func TestShape_Roles(t *testing.T) {
	gr := Shape(chatRequest(false))

	require.Len(t, gr.Contents, 2)
	assert.Equal(t, "user", gr.Contents[0].Role)
	assert.Equal(t, "model", gr.Contents[1].Role)
	assert.Equal(t, []GeminiPart{{Text: "hi"}}, gr.Contents[1].Parts)
	assert.Equal(t, 0.7, gr.GenerationConfig.Temperature)
	assert.Equal(t, 0.9, gr.GenerationConfig.TopP)
}

func TestGeminiChat(t *testing.T) {
	const reply = `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello!"}]},"finishReason":"STOP"}],"modelVersion":"gemini-1.5-pro-002"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro-latest:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var body GeminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Contents, 2)

		_, _ = w.Write([]byte(reply))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "g-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	res, err := adapter.Send(context.Background(), chatRequest(false))
	require.NoError(t, err)
	assert.JSONEq(t, reply, string(res.Payload))
}

func TestGeminiStream_ByteStream(t *testing.T) {
	const events = "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"He\"}]}}]}\r\n\r\ndata: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"llo\"}]}}]}\r\n\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro-latest:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(events))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "g-key", BaseURL: server.URL})
	require.NoError(t, err)

	res, err := adapter.Send(context.Background(), chatRequest(true))
	require.NoError(t, err)
	require.NotNil(t, res.Stream)
	assert.Nil(t, res.Chunks)
	defer res.Stream.Close()

	raw, err := io.ReadAll(res.Stream)
	require.NoError(t, err)
	assert.Equal(t, events, string(raw))
}

func TestGeminiUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = adapter.Send(context.Background(), chatRequest(true))
	var upstream *httpclient.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "API key not valid.", upstream.Message)
}

func TestGeminiModelStaysOnePathSegment(t *testing.T) {
	var path, rawQuery, requestURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, rawQuery, requestURI = r.URL.Path, r.URL.RawQuery, r.RequestURI
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "g-key", BaseURL: server.URL})
	require.NoError(t, err)

	req := chatRequest(false)
	req.Model = "../../other?x=1#"
	_, err = adapter.Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/models/../../other?x=1#:generateContent", path)
	assert.Empty(t, rawQuery)
	assert.Contains(t, requestURI, "/models/..%2F..%2Fother%3Fx=1%23:generateContent")

	req.Stream = true
	res, err := adapter.Send(context.Background(), req)
	require.NoError(t, err)
	defer res.Stream.Close()
	assert.Equal(t, "/models/../../other?x=1#:streamGenerateContent", path)
	assert.Equal(t, "alt=sse", rawQuery)
}
