package swarmkit

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DeltaFromJSON decodes one streamed fragment. data is either the delta object itself or a
// whole chat-completion chunk; for a chunk the delta of the first choice is returned, and a
// chunk without choices (e.g. the trailing usage chunk) yields an empty Delta. Only an
// object whose "choices" is an array is read as a chunk.
// Numbers decode as float64, which MergeDelta accepts as a tool-call index.
func DeltaFromJSON(data []byte) (Delta, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidDelta)
	}
	node := gjson.ParseBytes(data)
	if !node.IsObject() {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrInvalidDelta, node.Type)
	}
	if choices := node.Get("choices"); choices.IsArray() {
		node = choices.Get("0.delta")
		if !node.Exists() || node.Type == gjson.Null {
			return Delta{}, nil
		}
		if !node.IsObject() {
			return nil, fmt.Errorf("%w: choices.0.delta is %s", ErrInvalidDelta, node.Type)
		}
	}
	m, ok := node.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: delta is not an object", ErrInvalidDelta)
	}
	return Delta(m), nil
}
