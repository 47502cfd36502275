// Package swarmkit provides the two data-shape routines an agent runtime needs around a
// streaming, tool-calling chat model: folding streamed deltas into one response, and
// describing Go callables as function schemas the model can call.
//
// # Delta accumulation
//
// A streaming endpoint sends the assistant message as a sequence of fragments. Each fragment
// is merged into an Accumulator that the caller shaped up front:
//
//	acc := swarmkit.NewAccumulator("weather-agent", 4) // four tool-call slots
//	for _, raw := range chunks {
//	    if err := acc.MergeJSON(raw); err != nil { ... } // *StructuralError: caller bug
//	}
//	msg := acc.Message()
//
// Strings concatenate, maps merge recursively, "role" is never merged, and values of other
// kinds are dropped. A fragment's "tool_calls" entry is routed by its "index" into a slot.
// MergeDelta does not modify the fragment; the Accumulator has a single writer.
//
// # Schema reflection
//
// BuildSchema describes a Callable: Declare (explicit parameter list), FromFunc (a Go func
// plus positional names) or FromStruct (an argument struct). The doc text follows the
// "Args:" convention:
//
//	Greets someone.
//
//	Args:
//	    name: who to greet
//	    times (int): how many times
//
// Parameters without a default are required, in declaration order. A declared Go type with
// no JSON Schema mapping fails with *UnknownTypeError; a callable that cannot be introspected
// fails with *SignatureError.
//
// Registry caches schemas and validates accumulated tool calls against them; the
// adapters/openai package converts both sides to and from openai-go types.
package swarmkit
