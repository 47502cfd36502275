package swarmkit

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
)

const (
	keyRole      = "role"
	keyToolCalls = "tool_calls"
	keyIndex     = "index"
	keyFunction  = "function"
)

// Accumulator is a streaming response as assembled so far. Values are strings (merged by
// concatenation), nested maps (merged recursively) or, under "tool_calls", a fixed list of
// tool-call slots that are accumulators themselves.
//
// An Accumulator is mutated in place by MergeDelta and has a single writer: callers that
// consume several streams into one accumulator must serialize the merges.
type Accumulator map[string]any

// Delta is one partial fragment of a streaming response.
type Delta map[string]any

// ToolCall is one accumulated tool invocation.
type ToolCall struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a typed snapshot of an Accumulator.
type Message struct {
	Role      string     `json:"role"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewAccumulator returns an accumulator shaped for chat-completion deltas with slots
// pre-allocated tool-call entries. slots must cover the highest tool-call index the
// stream can carry; MergeDelta does not grow the list.
func NewAccumulator(sender string, slots int) Accumulator {
	toolCalls := make([]map[string]any, max(slots, 0))
	for i := range toolCalls {
		toolCalls[i] = map[string]any{
			"id":   "",
			"type": "",
			keyFunction: map[string]any{
				"name":      "",
				"arguments": "",
			},
		}
	}
	return Accumulator{
		"content":       "",
		"sender":        sender,
		keyRole:         "assistant",
		"function_call": nil,
		keyToolCalls:    toolCalls,
	}
}

// MergeDelta applies one fragment to acc.
//
// The "role" key of delta is never merged. String values are appended to the string already
// stored at the same key; map values are merged recursively; values of any other kind
// (numbers, booleans, null, bare lists) are dropped. When delta carries a non-empty
// "tool_calls" list, only its first element is applied: its "index" selects a slot of
// acc["tool_calls"] and its remaining fields are merged into that slot by the same rule.
//
// delta is not modified and may be reused by the caller. Fragments must be merged in the
// order they were produced.
//
// A *StructuralError is returned when acc lacks a key the delta targets, holds a value of
// another kind there, or has no slot at the requested index. Merging is not transactional:
// fields merged before the failing one stay merged.
func MergeDelta(acc Accumulator, delta Delta) error {
	if err := mergeFields(acc, delta, "", keyRole); err != nil {
		return err
	}
	first, ok, err := firstToolCall(delta[keyToolCalls])
	if err != nil || !ok {
		return err
	}
	idx, err := toolCallIndex(first[keyIndex])
	if err != nil {
		return &StructuralError{Path: keyToolCalls + ".0." + keyIndex, Err: err}
	}
	slot, err := acc.slot(idx)
	if err != nil {
		return err
	}
	return mergeFields(slot, first, joinPath(keyToolCalls, strconv.Itoa(idx)), keyIndex)
}

// Merge is the method form of MergeDelta.
func (a Accumulator) Merge(delta Delta) error {
	return MergeDelta(a, delta)
}

// MergeJSON parses data with DeltaFromJSON and merges the result.
func (a Accumulator) MergeJSON(data []byte) error {
	delta, err := DeltaFromJSON(data)
	if err != nil {
		return err
	}
	return MergeDelta(a, delta)
}

// Message returns a typed snapshot of the accumulator. Slots whose function name is still
// empty are left out; ToolCalls is nil when no slot was used.
func (a Accumulator) Message() Message {
	m := Message{
		Role:    stringAt(a, keyRole),
		Sender:  stringAt(a, "sender"),
		Content: stringAt(a, "content"),
	}
	for _, slot := range slotsOf(a[keyToolCalls]) {
		fn, _ := asMap(slot[keyFunction])
		tc := ToolCall{
			ID:        stringAt(slot, "id"),
			Type:      stringAt(slot, "type"),
			Name:      stringAt(fn, "name"),
			Arguments: stringAt(fn, "arguments"),
		}
		if tc.Name == "" {
			continue
		}
		m.ToolCalls = append(m.ToolCalls, tc)
	}
	return m
}

func (a Accumulator) slot(idx int) (map[string]any, error) {
	raw, ok := a[keyToolCalls]
	if !ok {
		return nil, &StructuralError{Path: keyToolCalls, Err: ErrMissingKey}
	}
	var (
		n  int
		at func(int) any
	)
	switch s := raw.(type) {
	case []map[string]any:
		n, at = len(s), func(i int) any { return s[i] }
	case []Accumulator:
		n, at = len(s), func(i int) any { return s[i] }
	case []any:
		n, at = len(s), func(i int) any { return s[i] }
	default:
		return nil, &StructuralError{Path: keyToolCalls, Err: ErrKindMismatch}
	}
	path := joinPath(keyToolCalls, strconv.Itoa(idx))
	if idx < 0 || idx >= n {
		return nil, &StructuralError{Path: path, Err: ErrSlotOutOfRange}
	}
	slot, ok := asMap(at(idx))
	if !ok || slot == nil {
		return nil, &StructuralError{Path: path, Err: ErrKindMismatch}
	}
	return slot, nil
}

// mergeFields merges source into target. Keys are visited in sorted order so a failing
// merge leaves a deterministic partial state.
func mergeFields(target, source map[string]any, path, skip string) error {
	for _, key := range slices.Sorted(maps.Keys(source)) {
		if key == skip {
			continue
		}
		at := joinPath(path, key)
		switch v := source[key].(type) {
		case string:
			cur, ok := target[key]
			if !ok {
				return &StructuralError{Path: at, Err: ErrMissingKey}
			}
			s, ok := cur.(string)
			if !ok {
				return &StructuralError{Path: at, Err: ErrKindMismatch}
			}
			target[key] = s + v
		default:
			sub, ok := asMap(v)
			if !ok || sub == nil {
				// numbers, booleans, null and lists have no merge rule
				continue
			}
			cur, ok := target[key]
			if !ok {
				return &StructuralError{Path: at, Err: ErrMissingKey}
			}
			dst, ok := asMap(cur)
			if !ok || dst == nil {
				return &StructuralError{Path: at, Err: ErrKindMismatch}
			}
			if err := mergeFields(dst, sub, at, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// firstToolCall returns element 0 of a "tool_calls" delta value. ok is false when the
// value is absent, not a list, or empty.
func firstToolCall(v any) (map[string]any, bool, error) {
	var first any
	switch list := v.(type) {
	case []any:
		if len(list) == 0 {
			return nil, false, nil
		}
		first = list[0]
	case []map[string]any:
		if len(list) == 0 {
			return nil, false, nil
		}
		first = list[0]
	case []Delta:
		if len(list) == 0 {
			return nil, false, nil
		}
		first = list[0]
	default:
		return nil, false, nil
	}
	m, ok := asMap(first)
	if !ok || m == nil {
		return nil, false, &StructuralError{Path: keyToolCalls + ".0", Err: ErrBadIndex}
	}
	return m, true, nil
}

func toolCallIndex(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, ErrBadIndex
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, ErrBadIndex
		}
		return int(i), nil
	default:
		return 0, ErrBadIndex
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Delta:
		return m, true
	case Accumulator:
		return m, true
	default:
		return nil, false
	}
}

func slotsOf(v any) []map[string]any {
	switch s := v.(type) {
	case []map[string]any:
		return s
	case []Accumulator:
		out := make([]map[string]any, len(s))
		for i, a := range s {
			out[i] = a
		}
		return out
	case []any:
		out := make([]map[string]any, 0, len(s))
		for _, e := range s {
			if m, ok := asMap(e); ok && m != nil {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
