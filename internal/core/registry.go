package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Category)
	registryMu sync.RWMutex
)

// Register adds a category to the registry.
// Panics if the category is invalid or its name is already registered;
// categories are registered from init functions, where either is a bug.
func Register(c Category) {
	if err := c.Validate(); err != nil {
		panic(err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[c.Name]; exists {
		panic(fmt.Sprintf("category already registered: %s", c.Name))
	}
	registry[c.Name] = c
}

// Get returns a category by name.
// Returns false if not found.
func Get(name string) (Category, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := registry[name]
	return c, ok
}

// Lookup is like Get but returns an error wrapping ErrUnknownCategory.
func Lookup(name string) (Category, error) {
	c, ok := Get(name)
	if !ok {
		return Category{}, fmt.Errorf("%w %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// All returns all registered categories.
// Sorted by group then by name for consistent ordering.
func All() []Category {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Category, 0, len(registry))
	for _, c := range registry {
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, c := range registry {
		seen[c.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// CategoryCount returns the number of registered categories.
func CategoryCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered categories.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Category)
}
