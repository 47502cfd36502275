package swarmkit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// Param is one entry of a callable's ordered parameter list.
// A nil Type means the parameter declares no type; it is advertised as "string".
// HasDefault marks the parameter optional, whatever the default value is.
// Description is used when the doc text has no "Args:" entry for the parameter.
type Param struct {
	Name        string
	Type        reflect.Type
	HasDefault  bool
	Description string
}

// Callable is anything BuildSchema can describe. Params returns the parameter list in
// declaration order, or an error when it cannot be introspected.
type Callable interface {
	Name() string
	Doc() string
	Params() ([]Param, error)
}

// ParamSpec names one positional parameter of a Go function passed to FromFunc.
type ParamSpec struct {
	Name        string
	HasDefault  bool
	Description string
}

var contextType = reflect.TypeFor[context.Context]()

// BuildSchema derives the function schema of c. The description and per-parameter texts come
// from c.Doc() (see the "Args:" convention of parseDoc); each parameter type is mapped to a
// JSON Schema primitive; parameters without a default are required, in declaration order.
//
// Returns *SignatureError when c's parameters cannot be introspected and *UnknownTypeError
// when a declared type has no mapping. No partial schema is returned.
func BuildSchema(c Callable, opts ...SchemaOption) (FunctionSchema, error) {
	var o schemaOptions
	for _, opt := range opts {
		opt(&o)
	}
	params, err := c.Params()
	if err != nil {
		return FunctionSchema{}, &SignatureError{Callable: c.Name(), Err: err}
	}
	description, docs := parseDoc(c.Doc())
	if o.description != "" {
		description = o.description
	}
	name := c.Name()
	if o.name != "" {
		name = o.name
	}

	props := make(map[string]Property, len(params))
	order := make([]string, 0, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		typ, ok := schemaType(p.Type)
		if !ok {
			return FunctionSchema{}, &UnknownTypeError{Param: p.Name, Type: p.Type}
		}
		desc, found := docs[p.Name]
		if !found {
			desc = p.Description
		}
		props[p.Name] = Property{Type: typ, Description: desc}
		order = append(order, p.Name)
		if !p.HasDefault {
			required = append(required, p.Name)
		}
	}
	parameters := Parameters{
		Type:       TypeObject,
		Properties: props,
		Required:   required,
	}
	if o.strict {
		applyStrictMode(&parameters, order)
	}
	return FunctionSchema{
		Type: "function",
		Function: FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}, nil
}

// Declare returns a Callable with an explicit parameter list.
func Declare(name, doc string, params ...Param) Callable {
	return &declared{name: name, doc: doc, params: params}
}

type declared struct {
	name   string
	doc    string
	params []Param
}

func (d *declared) Name() string { return d.name }
func (d *declared) Doc() string  { return d.doc }

func (d *declared) Params() ([]Param, error) {
	if err := checkNames(d.params); err != nil {
		return nil, err
	}
	return append([]Param(nil), d.params...), nil
}

// FromFunc returns a Callable for the Go function fn. Go keeps no parameter names at run
// time, so specs name the parameters positionally. A leading context.Context parameter is
// supplied by the runtime and left out of the schema. A variadic last parameter is an
// optional array.
//
// Params fails when fn is nil or not a function, or when len(specs) does not match the
// number of remaining parameters.
func FromFunc(name, doc string, fn any, specs ...ParamSpec) Callable {
	return &funcCallable{name: name, doc: doc, fn: fn, specs: specs}
}

type funcCallable struct {
	name  string
	doc   string
	fn    any
	specs []ParamSpec
}

func (f *funcCallable) Name() string { return f.name }
func (f *funcCallable) Doc() string  { return f.doc }

func (f *funcCallable) Params() ([]Param, error) {
	if f.fn == nil {
		return nil, errors.New("function is nil")
	}
	typ := reflect.TypeOf(f.fn)
	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not a function", f.fn)
	}
	if reflect.ValueOf(f.fn).IsNil() {
		return nil, errors.New("function is nil")
	}
	in := make([]reflect.Type, typ.NumIn())
	for i := range in {
		in[i] = typ.In(i)
	}
	offset := 0
	if len(in) > 0 && in[0] == contextType {
		offset = 1
	}
	if got := len(in) - offset; got != len(f.specs) {
		return nil, fmt.Errorf("function has %d parameters, %d names given", got, len(f.specs))
	}
	params := make([]Param, len(f.specs))
	for i, spec := range f.specs {
		params[i] = Param{
			Name:        spec.Name,
			Type:        in[i+offset],
			HasDefault:  spec.HasDefault || (typ.IsVariadic() && i+offset == len(in)-1),
			Description: spec.Description,
		}
	}
	if err := checkNames(params); err != nil {
		return nil, err
	}
	return params, nil
}

// FromStruct returns a Callable whose parameters are the fields of the argument struct T,
// the shape tools usually unmarshal their JSON arguments into. Fields are listed the way
// encoding/json sees them: names follow the json tag, and untagged embedded structs are
// flattened, with shallower fields shadowing deeper ones. A field is optional when its json
// tag has omitempty or omitzero, or when it carries a default tag. Field descriptions from
// jsonschema tags back up the doc text.
func FromStruct[T any](name, doc string) Callable {
	return &structCallable{name: name, doc: doc, typ: reflect.TypeFor[T]()}
}

type structCallable struct {
	name string
	doc  string
	typ  reflect.Type
}

func (s *structCallable) Name() string { return s.name }
func (s *structCallable) Doc() string  { return s.doc }

func (s *structCallable) Params() ([]Param, error) {
	typ := s.typ
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type %v is not a struct", s.typ)
	}
	params := dominantFields(structFields(typ, 0, make(map[reflect.Type]bool)))
	if err := checkNames(params); err != nil {
		return nil, err
	}
	descs := fieldDescriptions(typ)
	for i := range params {
		params[i].Description = descs[params[i].Name]
	}
	return params, nil
}

type structField struct {
	param  Param
	depth  int
	tagged bool
}

// structFields lists the JSON-visible fields of typ in field order. visiting holds the
// embedded types on the current path and cuts embedding cycles.
func structFields(typ reflect.Type, depth int, visiting map[reflect.Type]bool) []structField {
	if visiting[typ] {
		return nil
	}
	visiting[typ] = true
	defer delete(visiting, typ)

	var out []structField
	for field := range typ.Fields() {
		tag, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "-" && opts == "" {
			continue
		}
		if field.Anonymous && tag == "" {
			inner := field.Type
			if inner.Kind() == reflect.Pointer {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				out = append(out, structFields(inner, depth+1, visiting)...)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		name := tag
		if name == "" {
			name = field.Name
		}
		_, hasDefault := field.Tag.Lookup("default")
		for opt := range strings.SplitSeq(opts, ",") {
			if opt == "omitempty" || opt == "omitzero" {
				hasDefault = true
			}
		}
		out = append(out, structField{
			param:  Param{Name: name, Type: field.Type, HasDefault: hasDefault},
			depth:  depth,
			tagged: tag != "",
		})
	}
	return out
}

// dominantFields resolves name clashes like encoding/json: the shallowest field wins, a
// tagged field beats untagged ones at the same depth, and an unresolved tie hides the name.
func dominantFields(fields []structField) []Param {
	byName := make(map[string][]int, len(fields))
	for i, f := range fields {
		byName[f.param.Name] = append(byName[f.param.Name], i)
	}
	params := make([]Param, 0, len(fields))
	for i, f := range fields {
		if dominantField(fields, byName[f.param.Name]) == i {
			params = append(params, f.param)
		}
	}
	return params
}

func dominantField(fields []structField, candidates []int) int {
	depth := fields[candidates[0]].depth
	for _, i := range candidates[1:] {
		depth = min(depth, fields[i].depth)
	}
	var top, tagged []int
	for _, i := range candidates {
		if fields[i].depth != depth {
			continue
		}
		top = append(top, i)
		if fields[i].tagged {
			tagged = append(tagged, i)
		}
	}
	switch {
	case len(top) == 1:
		return top[0]
	case len(tagged) == 1:
		return tagged[0]
	default:
		return -1
	}
}

// fieldDescriptions reads jsonschema description tags of a struct's top-level properties.
// The reflector panics with "unsupported type" on chan, func and complex fields; such
// structs yield no descriptions and BuildSchema reports the field as *UnknownTypeError.
// Any other panic is not ours to swallow.
func fieldDescriptions(typ reflect.Type) (out map[string]string) {
	out = make(map[string]string)
	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(string)
			if !ok || !strings.HasPrefix(msg, "unsupported type ") {
				panic(r)
			}
			out = map[string]string{}
		}
	}()
	r := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.ReflectFromType(typ)
	if schema == nil || schema.Properties == nil {
		return out
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value != nil && pair.Value.Description != "" {
			out[pair.Key] = pair.Value.Description
		}
	}
	return out
}

func checkNames(params []Param) error {
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		if p.Name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
