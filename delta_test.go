package swarmkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaFromJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want Delta
	}{
		{
			name: "bare delta",
			in:   `{"content":"hi","role":"assistant"}`,
			want: Delta{"content": "hi", "role": "assistant"},
		},
		{
			name: "full chunk",
			in:   `{"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"hi"},"finish_reason":null}]}`,
			want: Delta{"content": "hi"},
		},
		{
			name: "only first choice",
			in:   `{"choices":[{"delta":{"content":"a"}},{"delta":{"content":"b"}}]}`,
			want: Delta{"content": "a"},
		},
		{
			name: "usage chunk without choices",
			in:   `{"choices":[],"usage":{"total_tokens":3}}`,
			want: Delta{},
		},
		{
			name: "null delta",
			in:   `{"choices":[{"delta":null}]}`,
			want: Delta{},
		},
		{
			name: "non-array choices is a plain field",
			in:   `{"content":"x","choices":"a"}`,
			want: Delta{"content": "x", "choices": "a"},
		},
		{
			name: "tool call index decodes as number",
			in:   `{"tool_calls":[{"index":1,"id":"x"}]}`,
			want: Delta{"tool_calls": []any{map[string]any{"index": float64(1), "id": "x"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeltaFromJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeltaFromJSON_Invalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{``, `{`, `[1,2]`, `"text"`, `{"choices":[{"delta":"text"}]}`} {
		_, err := DeltaFromJSON([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidDelta, "input %q", in)
	}
}

func TestAccumulator_MergeJSON_InvalidLeavesAccumulator(t *testing.T) {
	t.Parallel()
	acc := Accumulator{"content": "a"}
	require.ErrorIs(t, acc.MergeJSON([]byte(`{"content":`)), ErrInvalidDelta)
	assert.Equal(t, Accumulator{"content": "a"}, acc)
}
