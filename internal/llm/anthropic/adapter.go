package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/internal/llm"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

const defaultBaseURL = "https://api.anthropic.com/"

func init() {
	llm.Register(api.Anthropic, NewAdapter)
}

type Adapter struct {
	client anthropic.Client
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	return &Adapter{client: client}, nil
}

func (a *Adapter) Name() api.Provider { return api.Anthropic }

// Shape builds the Messages API parameters. The output budget comes from
// options.anthropic.max_tokens and defaults to api.DefaultMaxTokens.
func Shape(req *api.ChatRequest) anthropic.MessageNewParams {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == api.Assistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.Options.MaxTokens(),
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
		TopP:        anthropic.Float(req.TopP),
	}
}

func (a *Adapter) Send(ctx context.Context, req *api.ChatRequest) (*llm.Result, error) {
	params := Shape(req)

	var opts []option.RequestOption
	if req.HasTools() {
		var tools any
		if err := json.Unmarshal(req.Tools, &tools); err != nil {
			return nil, fmt.Errorf("decoding tools: %w", err)
		}
		opts = append(opts, option.WithJSONSet("tools", tools))
	}

	if req.Stream {
		stream := a.client.Messages.NewStreaming(ctx, params, opts...)
		return &llm.Result{
			Chunks: llm.FromSSE[anthropic.MessageStreamEventUnion](stream, func(e anthropic.MessageStreamEventUnion) string {
				return e.RawJSON()
			}),
		}, nil
	}

	msg, err := a.client.Messages.New(ctx, params, opts...)
	if err != nil {
		return nil, err
	}
	return &llm.Result{Payload: json.RawMessage(msg.RawJSON())}, nil
}
