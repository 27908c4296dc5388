package llm

import (
	"errors"
	"sync"
	"testing"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var registerOnce sync.Once

func registerStubs() {
	registerOnce.Do(func() {
		Register(api.OpenAI, func(cfg config.ProviderConfig) (Provider, error) {
			return &stubProvider{name: api.OpenAI}, nil
		})
		Register(api.Anthropic, func(cfg config.ProviderConfig) (Provider, error) {
			return &stubProvider{name: api.Anthropic}, nil
		})
		Register(api.Mistral, func(cfg config.ProviderConfig) (Provider, error) {
			return nil, errors.New("bad client")
		})
	})
}

func TestBootstrap(t *testing.T) {
	registerStubs()

	registry := Bootstrap(map[string]config.ProviderConfig{
		"openai":    {APIKey: "sk-test", Models: []string{"gpt-4o-mini"}},
		"anthropic": {APIKey: ""},
		"mistral":   {APIKey: "key"},
	}, zap.NewNop())

	p, err := registry.Lookup(api.OpenAI)
	require.NoError(t, err)
	assert.Equal(t, api.OpenAI, p.Name())

	_, err = registry.Lookup(api.Anthropic)
	var cerr *api.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "missing API key", cerr.Reason)

	_, err = registry.Lookup(api.Mistral)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "bad client", cerr.Reason)

	_, err = registry.Lookup(api.HuggingFace)
	var uerr *api.UnsupportedProviderError
	assert.True(t, errors.As(err, &uerr))
}

func TestBootstrap_InvalidBaseURL(t *testing.T) {
	registerStubs()

	registry := Bootstrap(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-test", BaseURL: "not a url"},
	}, zap.NewNop())

	_, err := registry.Lookup(api.OpenAI)
	var cerr *api.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "invalid base_url", cerr.Reason)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	registerStubs()
	assert.Panics(t, func() {
		Register(api.OpenAI, nil)
	})
	assert.Contains(t, Registered(), api.OpenAI)
}

func TestBootstrap_LogsFactoryFailure(t *testing.T) {
	registerStubs()
	core, logs := observer.New(zapcore.ErrorLevel)

	Bootstrap(map[string]config.ProviderConfig{
		"mistral": {APIKey: "key"},
	}, zap.New(core))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "mistral")
	assert.Contains(t, entries[0].Message, "Failed to initialize provider")
	assert.Contains(t, entries[0].Message, "✘")
	assert.Equal(t, "bad client", entries[0].ContextMap()["error"])
}
