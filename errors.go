package swarmkit

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for swarmkit. Use errors.Is to check.
var (
	ErrMissingKey     = errors.New("accumulator has no such key")
	ErrKindMismatch   = errors.New("accumulator value kind does not match delta")
	ErrSlotOutOfRange = errors.New("tool call slot index out of range")
	ErrBadIndex       = errors.New("tool call fragment has no integral index")
	ErrInvalidDelta   = errors.New("invalid delta json")
	ErrToolNotFound   = errors.New("tool not found")
	ErrValidation     = errors.New("validation failed")
)

// StructuralError reports that an accumulator was not pre-shaped for the deltas applied to it.
// It is a caller bug, not a data error: do not retry the merge.
// Path is the dotted location of the failing key (e.g. "tool_calls.1.function.arguments").
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("merge delta at %q: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// SignatureError is returned by BuildSchema when the parameter list of a callable
// cannot be introspected. No schema is produced.
type SignatureError struct {
	Callable string
	Err      error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("failed to get signature for function %s: %v", e.Callable, e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// UnknownTypeError is returned by BuildSchema when a parameter declares a Go type
// that has no JSON Schema mapping. Parameters without a declared type never produce it.
type UnknownTypeError struct {
	Param string
	Type  reflect.Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type annotation %v for parameter %s", e.Type, e.Param)
}

// ClientError is an error that should be sent back to the LLM for self-correction
// (e.g. malformed tool arguments, schema validation failure).
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool input: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *ClientError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsStructuralError returns true if err is or wraps a StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures of tool arguments.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error(), Err: ErrValidation}
}
