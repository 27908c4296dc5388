package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ruizTechServices/new-main-1/internal/config"
	"github.com/ruizTechServices/new-main-1/pkg/api"
)

// Factory builds an adapter from its validated configuration.
type Factory func(cfg config.ProviderConfig) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[api.Provider]Factory)
)

// Register makes an adapter available to Bootstrap. Adapters call it from init.
func Register(provider api.Provider, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[provider]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", provider))
	}
	factories[provider] = f
}

func Get(provider api.Provider) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[provider]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s", provider)
	}
	return f, nil
}

// Registered returns the providers that have a factory, sorted by name.
func Registered() []api.Provider {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]api.Provider, 0, len(factories))
	for p := range factories {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
