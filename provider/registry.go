package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a Provider from validated configuration.
// Each backend registers its own factory function.
type Factory func(cfg Config) (Provider, error)

// registry stores registered backend factories.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a backend factory to the registry. Backends call this in
// their init() function. Panics if the selector is already registered.
func Register(selector string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[selector]; exists {
		panic(fmt.Sprintf("provider %q already registered", selector))
	}
	registry[selector] = factory
}

// New constructs the backend named by cfg.Provider. The selector is
// resolved exactly once here; nothing downstream switches on it again.
// Returns ErrUnknownProvider for selectors outside the registered set and
// ErrConfiguration when required backend-specific fields are absent.
func New(cfg Config) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Provider]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, cfg.Provider, Available())
	}
	return factory(cfg)
}

// Available returns the registered selectors, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a backend from the registry. Primarily for tests.
func Unregister(selector string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, selector)
}
