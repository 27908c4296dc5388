package mistral

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/httpclient"
	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

func init() {
	llm.Register(api.Mistral, NewAdapter)
}

type Adapter struct {
	baseURL string
	apiKey  string
	client  httpclient.HTTPClient
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{},
	}, nil
}

func (a *Adapter) Name() api.Provider { return api.Mistral }

type ChatRequest struct {
	Model       string            `json:"model"`
	Messages    []api.ChatMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	TopP        float64           `json:"top_p"`
	Tools       json.RawMessage   `json:"tools,omitempty"`
	Stream      bool              `json:"stream"`
}

func Shape(req *api.ChatRequest) ChatRequest {
	out := ChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      req.Stream,
	}
	if req.HasTools() {
		out.Tools = req.Tools
	}
	return out
}

func (a *Adapter) Send(ctx context.Context, req *api.ChatRequest) (*llm.Result, error) {
	body := Shape(req)
	url := a.baseURL + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}

	if req.Stream {
		stream, err := httpclient.OpenStream(ctx, a.client, http.MethodPost, url, headers, body, httpclient.MessageFromBody)
		if err != nil {
			return nil, err
		}
		return &llm.Result{Chunks: httpclient.NewEventIterator(stream)}, nil
	}

	var payload json.RawMessage
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, url, headers, body, &payload, httpclient.MessageFromBody); err != nil {
		return nil, err
	}
	return &llm.Result{Payload: payload}, nil
}
