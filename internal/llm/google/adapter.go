package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/httpclient"
	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	llm.Register(api.Google, NewAdapter)
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

func (a *Adapter) Name() api.Provider { return api.Google }

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type GeminiRequest struct {
	Contents         []GeminiContent   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Shape converts the conversation to Gemini contents. Assistant turns use
// the "model" role and everything else is sent as "user".
func Shape(req *api.ChatRequest) GeminiRequest {
	gr := GeminiRequest{
		Contents: make([]GeminiContent, 0, len(req.Messages)),
		GenerationConfig: &GenerationConfig{
			Temperature: req.Temperature,
			TopP:        req.TopP,
		},
	}
	for _, m := range req.Messages {
		role := api.User
		if m.Role == api.Assistant {
			role = api.ModelAssistant
		}
		gr.Contents = append(gr.Contents, GeminiContent{
			Role:  string(role),
			Parts: []GeminiPart{{Text: m.Content}},
		})
	}
	return gr
}

func (a *Adapter) Send(ctx context.Context, req *api.ChatRequest) (*llm.Result, error) {
	body := Shape(req)
	headers := map[string]string{"x-goog-api-key": a.apiKey}
	// The model is caller input and must stay a single path segment.
	model := url.PathEscape(req.Model)

	if req.Stream {
		endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", a.baseURL, model)
		stream, err := httpclient.OpenStream(ctx, a.client, http.MethodPost, endpoint, headers, body, httpclient.MessageFromBody)
		if err != nil {
			return nil, err
		}
		return &llm.Result{Stream: stream}, nil
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, model)
	var payload json.RawMessage
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, endpoint, headers, body, &payload, httpclient.MessageFromBody); err != nil {
		return nil, err
	}
	return &llm.Result{Payload: payload}, nil
}
