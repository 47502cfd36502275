// Package testutil provides test helpers for swarmkit (e.g. an in-memory chunk Stream).
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/require"
)

// Stream is an in-memory chunk stream with the Next/Current/Err shape of ssestream.Stream.
// ErrVal is reported by Err once every chunk has been read.
type Stream struct {
	Chunks []openai.ChatCompletionChunk
	ErrVal error
	pos    int
}

// NewStream decodes each JSON chunk into an openai.ChatCompletionChunk, failing t on bad input.
func NewStream(t testing.TB, chunks ...string) *Stream {
	t.Helper()
	s := &Stream{Chunks: make([]openai.ChatCompletionChunk, len(chunks))}
	for i, raw := range chunks {
		require.NoError(t, json.Unmarshal([]byte(raw), &s.Chunks[i]), "chunk %d", i)
	}
	return s
}

// Next advances to the next chunk.
func (s *Stream) Next() bool {
	if s.pos >= len(s.Chunks) {
		return false
	}
	s.pos++
	return true
}

// Current returns the chunk Next advanced to.
func (s *Stream) Current() openai.ChatCompletionChunk {
	if s.pos == 0 {
		return openai.ChatCompletionChunk{}
	}
	return s.Chunks[s.pos-1]
}

// Err returns ErrVal after the last chunk, nil before.
func (s *Stream) Err() error {
	if s.pos < len(s.Chunks) {
		return nil
	}
	return s.ErrVal
}

// Read reports how many chunks were consumed.
func (s *Stream) Read() int { return s.pos }
