package plugin

import (
	"fmt"
	"sync"
)

// Registry manages plugin registration and hook dispatch order. Hooks run
// in registration order.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	byName  map[string]Plugin
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds a plugin to the registry.
// Returns an error if a plugin with the same name already exists.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	md := p.Metadata()
	if err := md.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[md.Name]; exists {
		return fmt.Errorf("plugin %s already registered", md.Name)
	}
	r.byName[md.Name] = p
	r.plugins = append(r.plugins, p)
	return nil
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("plugin %s not found", name)
	}
	return p, nil
}

// FilesTransformers returns registered file-collection hooks in
// registration order.
func (r *Registry) FilesTransformers() []FilesTransformer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []FilesTransformer
	for _, p := range r.plugins {
		if ft, ok := p.(FilesTransformer); ok {
			out = append(out, ft)
		}
	}
	return out
}

// PostBuilders returns registered post-build hooks in registration order.
func (r *Registry) PostBuilders() []PostBuilder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []PostBuilder
	for _, p := range r.plugins {
		if pb, ok := p.(PostBuilder); ok {
			out = append(out, pb)
		}
	}
	return out
}
