// Package schema centralizes the JSON schemas every structured LLM call
// site validates its output against (relevance scoring, query generation,
// task decomposition, follow-up generation, entity extraction, monitor
// query generation). Schemas are reflected from Go structs via
// invopop/jsonschema so the struct definition is the single source of
// truth, and validated at runtime with xeipuuv/gojsonschema.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// Registry holds compiled schemas keyed by call-site name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
	raw     map[string]json.RawMessage
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*gojsonschema.Schema),
		raw:     make(map[string]json.RawMessage),
	}
}

// Register reflects goType's JSON schema and compiles it under name.
// goType should be a pointer to the zero value of the target struct, e.g.
// Register("relevance_check", &RelevanceResult{}).
func (r *Registry) Register(name string, goType any) error {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	s := reflector.Reflect(goType)

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("schema: marshaling reflected schema for %q: %w", name, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema: compiling schema for %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = compiled
	r.raw[name] = raw
	return nil
}

// Validate checks document (raw JSON bytes) against the schema registered
// under name. Returns a nil slice of errors (not nil result) when valid.
func (r *Registry) Validate(name string, document []byte) ([]string, error) {
	r.mu.RLock()
	compiled, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("schema: no schema registered for %q", name)
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema: validating against %q: %w", name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}

// RawSchema returns the reflected JSON schema document registered under
// name, for embedding in a prompt so the model knows the expected shape.
func (r *Registry) RawSchema(name string) (json.RawMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.raw[name]
	return raw, ok
}
