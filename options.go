package swarmkit

import "log/slog"

// schemaOptions hold optional schema settings (strict, name and description overrides).
type schemaOptions struct {
	strict      bool
	name        string
	description string
}

// SchemaOption configures BuildSchema (e.g. WithStrict).
type SchemaOption func(*schemaOptions)

// WithStrict sets strict mode for the schema: additionalProperties: false and every
// parameter required, defaults or not. Use for OpenAI Structured Outputs compatibility.
func WithStrict() SchemaOption {
	return func(o *schemaOptions) {
		o.strict = true
	}
}

// WithName overrides the advertised function name.
func WithName(name string) SchemaOption {
	return func(o *schemaOptions) {
		o.name = name
	}
}

// WithDescription overrides the description parsed from the doc text.
// Per-parameter descriptions from the "Args:" section are still used.
func WithDescription(description string) SchemaOption {
	return func(o *schemaOptions) {
		o.description = description
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger     *slog.Logger
	schemaOpts []SchemaOption
}

// WithLogger sets the logger used for registration events. Nil means slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithSchemaOptions sets options applied to every schema built by Register.
func WithSchemaOptions(opts ...SchemaOption) RegistryOption {
	return func(o *registryOptions) {
		o.schemaOpts = append(o.schemaOpts, opts...)
	}
}
