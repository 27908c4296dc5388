package llm

import (
	"sync"

	"github.com/ruizTechServices/new-main-1/pkg/api"
)

// Registry holds one adapter per configured provider. It is populated once at
// startup and only read afterwards.
type Registry struct {
	mu        sync.RWMutex
	providers map[api.Provider]Provider
	failures  map[api.Provider]*api.ConfigurationError
	models    map[api.Provider][]string
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[api.Provider]Provider),
		failures:  make(map[api.Provider]*api.ConfigurationError),
		models:    make(map[api.Provider][]string),
	}
}

// Add registers a ready adapter together with its model catalog.
func (r *Registry) Add(p Provider, models []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
	delete(r.failures, p.Name())
	r.models[p.Name()] = models
}

// Disable records that name has an adapter but could not be configured.
func (r *Registry) Disable(name api.Provider, reason string, models []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, name)
	r.failures[name] = &api.ConfigurationError{Provider: name, Reason: reason}
	r.models[name] = models
}

// Lookup returns the adapter for name, a *api.ConfigurationError when the
// provider was not configured, or a *api.UnsupportedProviderError when no
// adapter exists for it.
func (r *Registry) Lookup(name api.Provider) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	if cerr, ok := r.failures[name]; ok {
		return nil, cerr
	}
	return nil, &api.UnsupportedProviderError{Provider: name}
}

// Statuses reports every provider in the closed set, in declaration order.
func (r *Registry) Statuses() []api.ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.ProviderStatus, 0, len(api.Providers))
	for _, name := range api.Providers {
		status := api.ProviderStatus{ID: name, Models: r.models[name]}
		if status.Models == nil {
			status.Models = []string{}
		}
		switch {
		case r.providers[name] != nil:
			status.Available = true
		case r.failures[name] != nil:
			status.Reason = r.failures[name].Reason
		default:
			status.Reason = "not supported"
		}
		out = append(out, status)
	}
	return out
}
