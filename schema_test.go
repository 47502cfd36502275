package swarmkit

import (
	"maps"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotAndRestoreCustomTypes backs up the global custom type registry and registers t.Cleanup
// to restore it. Use in tests that call RegisterType so they do not affect other tests.
// Do not run such tests with t.Parallel().
func snapshotAndRestoreCustomTypes(t *testing.T) {
	t.Helper()
	customTypesMu.Lock()
	before := maps.Clone(customTypes)
	customTypesMu.Unlock()
	t.Cleanup(func() {
		customTypesMu.Lock()
		customTypes = before
		customTypesMu.Unlock()
	})
}

func TestSchemaType(t *testing.T) {
	type named string
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{nil, "string"},
		{reflect.TypeFor[string](), "string"},
		{reflect.TypeFor[named](), "string"},
		{reflect.TypeFor[int](), "integer"},
		{reflect.TypeFor[int8](), "integer"},
		{reflect.TypeFor[uint64](), "integer"},
		{reflect.TypeFor[float32](), "number"},
		{reflect.TypeFor[float64](), "number"},
		{reflect.TypeFor[bool](), "boolean"},
		{reflect.TypeFor[[]int](), "array"},
		{reflect.TypeFor[[3]string](), "array"},
		{reflect.TypeFor[map[string]any](), "object"},
		{reflect.TypeFor[struct{ A int }](), "object"},
		{reflect.TypeFor[Null](), "null"},
		{reflect.TypeFor[*int](), "integer"},
		{reflect.TypeFor[**string](), "string"},
	}
	for _, tt := range tests {
		got, ok := schemaType(tt.typ)
		assert.True(t, ok, "%v", tt.typ)
		assert.Equal(t, tt.want, got, "%v", tt.typ)
	}
	for _, typ := range []reflect.Type{
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[complex64](),
		reflect.TypeFor[error](),
	} {
		_, ok := schemaType(typ)
		assert.False(t, ok, "%v", typ)
	}
}

func TestRegisterType(t *testing.T) {
	snapshotAndRestoreCustomTypes(t)
	RegisterType(time.Duration(0), TypeString)
	RegisterType(time.Time{}, TypeString)

	got, ok := schemaType(reflect.TypeFor[time.Duration]())
	require.True(t, ok)
	assert.Equal(t, "string", got)
	got, ok = schemaType(reflect.TypeFor[*time.Time]())
	require.True(t, ok)
	assert.Equal(t, "string", got)
}

func TestRegisterType_PointerInstance(t *testing.T) {
	snapshotAndRestoreCustomTypes(t)
	type Handle chan struct{}
	RegisterType((*Handle)(nil), TypeInteger)

	for _, typ := range []reflect.Type{reflect.TypeFor[Handle](), reflect.TypeFor[*Handle]()} {
		got, ok := schemaType(typ)
		require.True(t, ok, "%v", typ)
		assert.Equal(t, "integer", got, "%v", typ)
	}
}

func TestRegisterType_MakesUnknownTypeKnown(t *testing.T) {
	snapshotAndRestoreCustomTypes(t)
	type Handle chan struct{}
	c := Declare("f", "", Param{Name: "h", Type: reflect.TypeFor[Handle]()})
	_, err := BuildSchema(c)
	require.Error(t, err)

	RegisterType(Handle(nil), TypeString)
	fs, err := BuildSchema(c)
	require.NoError(t, err)
	assert.Equal(t, "string", fs.Function.Parameters.Properties["h"].Type)
}

func TestRegisterType_InvalidArgs_Panic(t *testing.T) {
	snapshotAndRestoreCustomTypes(t)
	assert.Panics(t, func() { RegisterType(nil, "string") })
	assert.Panics(t, func() { RegisterType(struct{}{}, "") })
	assert.Panics(t, func() { RegisterType(struct{}{}, "uuid") })
}

func TestParameters_Map(t *testing.T) {
	t.Parallel()
	closed := false
	p := Parameters{
		Type: "object",
		Properties: map[string]Property{
			"a": {Type: "string", Description: "first"},
		},
		Required:             []string{"a"},
		AdditionalProperties: &closed,
	}
	assert.Equal(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string", "description": "first"},
		},
		"required":             []any{"a"},
		"additionalProperties": false,
	}, p.Map())

	open := Parameters{Type: "object", Properties: map[string]Property{}}
	m := open.Map()
	assert.NotContains(t, m, "additionalProperties")
	assert.Equal(t, []any{}, m["required"])
}

func TestApplyStrictMode(t *testing.T) {
	t.Parallel()
	p := Parameters{
		Type:       "object",
		Properties: map[string]Property{"b": {Type: "string"}, "a": {Type: "integer"}},
		Required:   []string{"b"},
	}
	applyStrictMode(&p, []string{"b", "a"})
	require.NotNil(t, p.AdditionalProperties)
	assert.False(t, *p.AdditionalProperties)
	assert.Equal(t, []string{"b", "a"}, p.Required)
}
