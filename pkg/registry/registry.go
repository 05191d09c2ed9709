// Package registry implements the process-lifetime Integration Registry:
// a source-id → adapter-factory catalog that validates adapters at
// registration time (spec §4.1, "Registration validation").
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Factory produces a fresh, short-lived Adapter instance. The Registry owns
// factories, not instances; spec §3 ("Ownership") requires a new adapter
// per invocation.
type Factory func() integration.Adapter

// Registry is the process-lifetime catalog of registered integrations.
// Modeled directly on config.LLMProviderRegistry / config.MCPServerRegistry:
// a sync.RWMutex-guarded map, filled at startup, whose lookups take only
// the shared read lock so they never wait on each other; ListSources
// returns a fresh slice on every call.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	metadata  map[string]integration.SourceMetadata
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		metadata:  make(map[string]integration.SourceMetadata),
	}
}

// Register validates and adds a new integration factory under id. It
// performs the four checks spec §4.1 assigns to registration time, failing
// the process (returning an error the caller should treat as fatal) if any
// is violated — the teacher's "validate adapters at registration, failing
// the process if violated" pattern (config.Initialize →
// Validator.ValidateAll), applied to adapters instead of MCP servers.
func (r *Registry) Register(id string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("registry: factory for %q is nil", id)
	}

	adapter := factory()
	if adapter == nil {
		return fmt.Errorf("registry: factory for %q produced a nil adapter", id)
	}

	meta := adapter.Metadata()
	if meta.ID == "" {
		return fmt.Errorf("registry: adapter %q returned empty SourceMetadata.ID", id)
	}
	if meta.ID != id {
		return fmt.Errorf("registry: adapter metadata id %q does not match registration id %q", meta.ID, id)
	}

	for _, strategy := range meta.SearchStrategies {
		if strategy.MethodName == "" {
			return fmt.Errorf("registry: adapter %q declares a search strategy with empty method_name", id)
		}
	}

	// spec §4.1's fourth registration check, warning-only: the source-
	// selection prompt (promptBuilder.sourceSelection) is built generically
	// from every registered SourceMetadata.Description, not from a per-id
	// template file, so an adapter with no Description contributes nothing
	// for the LLM to choose it by.
	if meta.Description == "" {
		slog.Warn("registry: adapter has no description for source-selection prompts", "id", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("registry: integration %q already registered", id)
	}
	r.factories[id] = factory
	r.metadata[id] = meta
	return nil
}

// New constructs a fresh Adapter instance for id.
func (r *Registry) New(id string) (integration.Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: integration %q not registered", id)
	}
	return factory(), nil
}

// Metadata returns the registration-time SourceMetadata for id without
// constructing an adapter instance — used by selection prompts and the
// `list_sources` surface (spec §6).
func (r *Registry) Metadata(id string) (integration.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.metadata[id]
	return meta, ok
}

// ListSources returns the SourceMetadata of every registered integration,
// implementing the `list_sources() → [SourceMetadata]` surface of spec §6.
func (r *Registry) ListSources() []integration.SourceMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]integration.SourceMetadata, 0, len(r.metadata))
	for _, meta := range r.metadata {
		out = append(out, meta)
	}
	return out
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// Len returns the number of registered integrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
