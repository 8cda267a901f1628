package core

import (
	"fmt"
	"sort"
	"sync"
)

// CheckFunc is a rule check. It must not mutate the repository and reports
// rule breaches as problems; only structural failures are yielded as errors.
type CheckFunc func(season *Season, repo *Repository) Problems

// CheckDefinition describes a registered rule check.
type CheckDefinition struct {
	Name        string
	Description string
	Run         CheckFunc
}

var (
	registry   = make(map[string]CheckDefinition)
	registryMu sync.RWMutex
)

// Register adds a check to the registry.
// Panics if a check with the same name is already registered.
func Register(def CheckDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Run == nil {
		panic(fmt.Sprintf("check without run function: %s", def.Name))
	}
	if _, exists := registry[def.Name]; exists {
		panic(fmt.Sprintf("check already registered: %s", def.Name))
	}
	registry[def.Name] = def
}

// Get returns a check by name.
// Returns false if not found.
func Get(name string) (CheckDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[name]
	return def, ok
}

// All returns all registered checks sorted by name, so runs over the same
// registry enumerate checks in the same order.
func All() []CheckDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]CheckDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Names returns the names of all registered checks, sorted.
func Names() []string {
	defs := All()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// CheckCount returns the number of registered checks.
func CheckCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
