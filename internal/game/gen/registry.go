package gen

import (
	"fmt"
	"sort"
)

// Registry maps version names to their rule sets. Callers build one at
// startup, register every supported version, and pass it wherever routes
// are loaded.
type Registry struct {
	byVersion map[string]Rules
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byVersion: make(map[string]Rules)}
}

// Register adds a rule set under its version name.
//
// Precondition: the version name is not already registered.
func (r *Registry) Register(rules Rules) error {
	name := rules.VersionName()
	if _, exists := r.byVersion[name]; exists {
		return fmt.Errorf("version %q already registered", name)
	}
	r.byVersion[name] = rules
	return nil
}

// Get returns the rule set for a version name.
func (r *Registry) Get(versionName string) (Rules, error) {
	rules, ok := r.byVersion[versionName]
	if !ok {
		return nil, fmt.Errorf("unsupported version %q", versionName)
	}
	return rules, nil
}

// VersionNames returns every registered version name, sorted.
func (r *Registry) VersionNames() []string {
	names := make([]string, 0, len(r.byVersion))
	for name := range r.byVersion {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
