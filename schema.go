package swarmkit

import (
	"reflect"
	"slices"
	"sync"
)

// JSON Schema primitive type names used in function schemas.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

var primitiveTypes = []string{TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject, TypeNull}

// Null is the parameter type that maps to the JSON Schema "null" type.
type Null struct{}

// FunctionSchema is the tool declaration advertised to the model.
type FunctionSchema struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a callable: its name, purpose and parameters.
type FunctionDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters is the object schema of a function's arguments.
// Required keeps the declaration order of the parameter list.
type Parameters struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

// Property is the schema of one parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Map returns the parameters as a plain JSON Schema map, the form provider SDKs and
// schema compilers accept.
func (p Parameters) Map() map[string]any {
	props := make(map[string]any, len(p.Properties))
	for name, prop := range p.Properties {
		props[name] = map[string]any{"type": prop.Type, "description": prop.Description}
	}
	required := make([]any, len(p.Required))
	for i, name := range p.Required {
		required[i] = name
	}
	out := map[string]any{
		"type":       p.Type,
		"properties": props,
		"required":   required,
	}
	if p.AdditionalProperties != nil {
		out["additionalProperties"] = *p.AdditionalProperties
	}
	return out
}

var (
	customTypesMu sync.RWMutex
	customTypes   = make(map[reflect.Type]string)
)

var nullType = reflect.TypeFor[Null]()

// RegisterType maps a Go type to one of the seven JSON Schema primitive type names
// in generated schemas. emptyInstance is a value of the type to register (e.g. uuid.UUID{});
// it must not be nil, and jsonType must be a primitive name ("string", "integer", ...).
// Registering *T registers T; pointer parameters (*T) use the same mapping as T. Call RegisterType at application
// startup before the first BuildSchema.
func RegisterType(emptyInstance any, jsonType string) {
	if emptyInstance == nil {
		panic("swarmkit: RegisterType emptyInstance must not be nil")
	}
	if !slices.Contains(primitiveTypes, jsonType) {
		panic("swarmkit: RegisterType jsonType must be a JSON Schema primitive type, got " + jsonType)
	}
	typ := reflect.TypeOf(emptyInstance)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	customTypesMu.Lock()
	defer customTypesMu.Unlock()
	customTypes[typ] = jsonType
}

// schemaType maps a declared parameter type to its JSON Schema name. A nil type (no
// declaration) is "string"; ok is false for declared types without a mapping.
func schemaType(t reflect.Type) (string, bool) {
	if t == nil {
		return TypeString, true
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	customTypesMu.RLock()
	name, found := customTypes[t]
	customTypesMu.RUnlock()
	if found {
		return name, true
	}
	if t == nullType {
		return TypeNull, true
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInteger, true
	case reflect.Float32, reflect.Float64:
		return TypeNumber, true
	case reflect.Bool:
		return TypeBoolean, true
	case reflect.Slice, reflect.Array:
		return TypeArray, true
	case reflect.Map, reflect.Struct:
		return TypeObject, true
	default:
		return "", false
	}
}

// applyStrictMode closes the object and marks every property required, in declaration order.
func applyStrictMode(p *Parameters, order []string) {
	closed := false
	p.AdditionalProperties = &closed
	p.Required = slices.Clone(order)
}
