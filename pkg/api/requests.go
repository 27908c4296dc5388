package api

import "encoding/json"

// Provider identifies one upstream LLM vendor.
type Provider string

const (
	OpenAI      Provider = "openai"
	Anthropic   Provider = "anthropic"
	Google      Provider = "google"
	Mistral     Provider = "mistral"
	DeepSeek    Provider = "deepseek"
	HuggingFace Provider = "hf"
)

// Providers lists every identifier accepted by the gateway, wired or not.
var Providers = []Provider{OpenAI, Anthropic, Google, Mistral, DeepSeek, HuggingFace}

// Valid reports whether p belongs to the closed provider set.
func (p Provider) Valid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"

	// ModelAssistant is Gemini's name for the assistant role.
	ModelAssistant Role = "model"
)

const (
	DefaultTemperature = 1.0
	DefaultTopP        = 1.0

	// DefaultMaxTokens is sent to providers that require an explicit output budget.
	DefaultMaxTokens int64 = 1024
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the canonical, already validated request. Defaults are applied
// by the validator so every field here is meaningful.
type ChatRequest struct {
	Provider    Provider        `json:"provider"`
	Model       string          `json:"model"`
	Messages    []ChatMessage   `json:"messages"`
	Stream      bool            `json:"stream"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	Tools       json.RawMessage `json:"tools,omitempty"`
	Options     Options         `json:"options,omitempty"`
}

// HasTools reports whether the caller supplied a non-null tools value.
func (r *ChatRequest) HasTools() bool {
	return len(r.Tools) > 0 && string(r.Tools) != "null"
}

// Options carries parameters that only make sense for one provider.
type Options struct {
	Anthropic *AnthropicOptions `json:"anthropic,omitempty"`
}

type AnthropicOptions struct {
	MaxTokens int64 `json:"max_tokens,omitempty"`
}

// MaxTokens returns the Anthropic output budget, falling back to DefaultMaxTokens.
func (o Options) MaxTokens() int64 {
	if o.Anthropic != nil && o.Anthropic.MaxTokens > 0 {
		return o.Anthropic.MaxTokens
	}
	return DefaultMaxTokens
}
