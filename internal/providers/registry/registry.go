// Package registry maps provider IDs to adapter constructors. The provider
// selector constructs adapters lazily through this registry rather than
// importing each adapter package itself.
package registry

import (
	"fmt"
	"sync"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// Config carries the per-provider construction inputs. All fields are
// optional; adapters fall back to their production defaults.
type Config struct {
	APIKey  string
	BaseURL string
}

// Factory constructs an adapter for one provider.
type Factory func(cfg Config) catalog.Service

var (
	mu        sync.RWMutex
	factories = make(map[catalog.ProviderID]Factory)
)

// Register registers an adapter factory for a provider ID. Called from this
// package's init for the built-in providers.
func Register(id catalog.ProviderID, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[id] = factory
}

// New constructs the adapter for a provider ID. Construction itself never
// fails; the only error case is an unregistered ID.
func New(id catalog.ProviderID, cfg Config) (catalog.Service, error) {
	mu.RLock()
	factory, exists := factories[id]
	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no adapter registered for provider: %s", id)
	}
	return factory(cfg), nil
}

// Has checks if a provider ID has a registered factory.
func Has(id catalog.ProviderID) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, exists := factories[id]
	return exists
}

// IDs returns all provider IDs with registered factories.
func IDs() []catalog.ProviderID {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]catalog.ProviderID, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	return ids
}
