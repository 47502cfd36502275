package swarmkit

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Registry caches the schemas of registered tools and validates accumulated tool calls
// against them. Schemas are built once, at registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	opts    registryOptions
}

type entry struct {
	schema    FunctionSchema
	validator *Validator
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*entry),
		opts:    o,
	}
}

// Register builds and caches the schema of c. A tool with the same advertised name is replaced.
// Errors from BuildSchema (*SignatureError, *UnknownTypeError) are returned unchanged and leave
// the registry untouched. Safe for concurrent use.
func (r *Registry) Register(c Callable, opts ...SchemaOption) (FunctionSchema, error) {
	all := append(slices.Clone(r.opts.schemaOpts), opts...)
	fs, err := BuildSchema(c, all...)
	if err != nil {
		r.opts.logger.Debug("tool registration failed", "tool", c.Name(), "error", err)
		return FunctionSchema{}, err
	}
	v, err := Compile(fs)
	if err != nil {
		return FunctionSchema{}, err
	}
	r.mu.Lock()
	_, replaced := r.entries[fs.Function.Name]
	r.entries[fs.Function.Name] = &entry{schema: fs, validator: v}
	r.mu.Unlock()
	r.opts.logger.Debug("tool registered",
		"tool", fs.Function.Name,
		"params", len(fs.Function.Parameters.Properties),
		"required", strings.Join(fs.Function.Parameters.Required, ","),
		"replaced", replaced,
	)
	return fs, nil
}

// Schema returns the schema registered under name, or (FunctionSchema{}, false) if not found.
func (r *Registry) Schema(name string) (FunctionSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return FunctionSchema{}, false
	}
	return e.schema, true
}

// Schemas returns all registered schemas (e.g. for the tools field of a model request),
// sorted by name for deterministic order.
func (r *Registry) Schemas() []FunctionSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]FunctionSchema, 0, len(names))
	for _, name := range names {
		out = append(out, r.entries[name].schema)
	}
	return out
}

// ValidateCall checks the arguments of one accumulated tool call.
// Returns ErrToolNotFound for unknown tools and *ClientError for invalid arguments.
func (r *Registry) ValidateCall(tc ToolCall) error {
	r.mu.RLock()
	e, ok := r.entries[tc.Name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrToolNotFound, tc.Name)
	}
	return e.validator.Validate([]byte(tc.Arguments))
}

// ValidateMessage validates every tool call of m and joins the failures.
// Each failure is prefixed with the call ID.
func (r *Registry) ValidateMessage(m Message) error {
	var errs []error
	for _, tc := range m.ToolCalls {
		if err := r.ValidateCall(tc); err != nil {
			errs = append(errs, fmt.Errorf("tool call %s: %w", tc.ID, err))
		}
	}
	return errors.Join(errs...)
}
