package mistral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatRequest(stream bool) *api.ChatRequest {
	return &api.ChatRequest{
		Provider:    api.Mistral,
		Model:       "mistral-small-latest",
		Messages:    []api.ChatMessage{{Role: api.User, Content: "bonjour"}},
		Stream:      stream,
		Temperature: 1,
		TopP:        1,
	}
}

func TestMistralChat(t *testing.T) {
	const reply = `{"id":"cmpl-1","object":"chat.completion","model":"mistral-small-latest","choices":[{"index":0,"message":{"role":"assistant","content":"Salut"},"finish_reason":"stop"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer m-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["stream"])
		assert.Equal(t, "mistral-small-latest", body["model"])
		assert.NotContains(t, body, "tools")

		_, _ = w.Write([]byte(reply))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "m-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	res, err := adapter.Send(context.Background(), chatRequest(false))
	require.NoError(t, err)
	assert.JSONEq(t, reply, string(res.Payload))
}

func TestMistralStream_Chunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Sa\"}}]}\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"lut\"}}]}\n\ndata: [DONE]\n\n"))
	}))
	defer server.Close()

	adapter, err := NewAdapter(config.ProviderConfig{APIKey: "m-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	res, err := adapter.Send(context.Background(), chatRequest(true))
	require.NoError(t, err)
	require.NotNil(t, res.Chunks)
	defer res.Chunks.Close()

	var got []string
	for res.Chunks.Next() {
		got = append(got, string(res.Chunks.Current().(json.RawMessage)))
	}
	require.NoError(t, res.Chunks.Err())
	assert.Equal(t, []string{
		`{"choices":[{"delta":{"content":"Sa"}}]}`,
		`{"choices":[{"delta":{"content":"lut"}}]}`,
	}, got)
}

func TestShape_Tools(t *testing.T) {
	req := chatRequest(false)
	req.Tools = json.RawMessage(`[{"type":"function"}]`)

	out := Shape(req)
	assert.JSONEq(t, `[{"type":"function"}]`, string(out.Tools))

	req.Tools = json.RawMessage(`null`)
	assert.Nil(t, Shape(req).Tools)
}
