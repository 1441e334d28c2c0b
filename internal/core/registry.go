package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Resource)
	registryMu sync.RWMutex
)

// Register adds a resource to the registry under its table name.
// Panics if a table with the same name is already registered.
func Register(r Resource) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := r.Info().Name
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("table already registered: %s", name))
	}
	registry[name] = r
}

// Get returns a resource by table name.
// Returns false if not found.
func Get(name string) (Resource, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	r, ok := registry[name]
	return r, ok
}

// All returns all registered resources sorted by table name.
func All() []Resource {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Resource, 0, len(registry))
	for _, r := range registry {
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info().Name < result[j].Info().Name
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Resource)
}
