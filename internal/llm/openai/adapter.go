package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

const defaultBaseURL = "https://api.openai.com/v1/"

func init() {
	llm.Register(api.OpenAI, NewAdapter)
}

// Adapter talks to OpenAI-compatible chat completion endpoints through the
// official SDK.
type Adapter struct {
	client openai.Client
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	return &Adapter{client: client}, nil
}

func (a *Adapter) Name() api.Provider { return api.OpenAI }

// Shape builds the SDK parameters for req.
func Shape(req *api.ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case api.Assistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		case api.System:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
	}
}

func toolOptions(req *api.ChatRequest) ([]option.RequestOption, error) {
	if !req.HasTools() {
		return nil, nil
	}
	var tools any
	if err := json.Unmarshal(req.Tools, &tools); err != nil {
		return nil, fmt.Errorf("decoding tools: %w", err)
	}
	return []option.RequestOption{option.WithJSONSet("tools", tools)}, nil
}

func (a *Adapter) Send(ctx context.Context, req *api.ChatRequest) (*llm.Result, error) {
	params := Shape(req)
	opts, err := toolOptions(req)
	if err != nil {
		return nil, err
	}

	if req.Stream {
		stream := a.client.Chat.Completions.NewStreaming(ctx, params, opts...)
		return &llm.Result{
			Chunks: llm.FromSSE[openai.ChatCompletionChunk](stream, func(c openai.ChatCompletionChunk) string {
				return c.RawJSON()
			}),
		}, nil
	}

	resp, err := a.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return nil, err
	}
	return &llm.Result{Payload: json.RawMessage(resp.RawJSON())}, nil
}
