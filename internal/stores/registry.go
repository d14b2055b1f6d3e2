// Package stores describes the grocery store providers and holds the
// shared product shape their clients map into.
package stores

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry manages the configured store providers
type Registry struct {
	providers map[string]*Provider
	mu        sync.RWMutex
}

// NewRegistry creates a new store registry and loads the embedded YAML file
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*Provider),
	}

	data, err := configFiles.ReadFile("config/stores.yaml")
	if err != nil {
		return nil, fmt.Errorf("read store config: %w", err)
	}

	var file providerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal store config: %w", err)
	}

	r.mu.Lock()
	for i := range file.Stores {
		provider := file.Stores[i]
		if provider.ID == "" {
			return nil, fmt.Errorf("store entry %d missing id", i)
		}
		r.providers[provider.ID] = &provider
	}
	r.mu.Unlock()

	if len(r.providers) == 0 {
		return nil, fmt.Errorf("store config defines no stores")
	}

	return r, nil
}

// Get returns the provider with the given id
func (r *Registry) Get(id string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown store: %s", id)
	}
	return provider, nil
}

// List returns all providers ordered by id
func (r *Registry) List() []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]*Provider, 0, len(r.providers))
	for _, provider := range r.providers {
		providers = append(providers, provider)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers
}
