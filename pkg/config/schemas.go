package config

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry holds CUE definitions that Go values are checked against.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a registry with the built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	if err := sr.RegisterSchema("#Config", builtinConfigSchema); err != nil {
		panic(err)
	}

	return sr
}

// RegisterSchema compiles src and registers the definition called name,
// e.g. "#Config".
func (sr *SchemaRegistry) RegisterSchema(name, src string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(src)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	def := val.LookupPath(cue.ParsePath(name))
	if !def.Exists() {
		return fmt.Errorf("schema source does not define %s", name)
	}

	sr.schemas[name] = def
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema encodes data and unifies it with the named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(_ context.Context, name string, data interface{}) error {
	schema, ok := sr.GetSchema(name)
	if !ok {
		return fmt.Errorf("schema %s not found", name)
	}

	sr.mu.Lock()
	dataVal := sr.ctx.Encode(data)
	sr.mu.Unlock()
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ListSchemas returns the registered schema names.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const builtinConfigSchema = `
#Config: {
	data_dir: string & !=""

	database: {
		path?: string
	}

	logging: {
		level:  "trace" | "debug" | "info" | "warn" | "error"
		format: "console" | "json"
	}

	tracing: {
		enabled:  bool
		exporter: "otlp" | "stdout" | "none"
		endpoint?: string
		sample_rate: number & >=0 & <=1
	}

	metrics: {
		enabled:        bool
		listen_address: string
		path:           =~"^/"
	}

	// Nanoseconds; yaml accepts "5s".
	challenge: {
		timeout: int & >0
		memory_limit_pages?: int & >0 & <=65536
	}

	lessons: {
		disabled?: [...=~"^[a-z0-9-]+$"]
	}

	policy: {
		paths?:    [...string & !=""]
		disabled?: [...string]
	}
}
`
