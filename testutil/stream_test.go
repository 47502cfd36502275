package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/swarmkit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStream(t *testing.T) {
	s := NewStream(t,
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":"a"}}]}`,
		`{"id":"c2","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":"b"}}]}`,
	)
	boom := errors.New("boom")
	s.ErrVal = boom

	require.True(t, s.Next())
	assert.Equal(t, "c1", s.Current().ID)
	assert.NoError(t, s.Err())
	require.True(t, s.Next())
	assert.Equal(t, "c2", s.Current().ID)
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
	assert.Equal(t, 2, s.Read())
}

func TestNewTestRegistry(t *testing.T) {
	reg := NewTestRegistry(t, swarmkit.Declare("ping", "Ping the host."))
	all := reg.Schemas()
	require.Len(t, all, 1)
	assert.Equal(t, "ping", all[0].Function.Name)
	assert.Equal(t, "Ping the host.", all[0].Function.Description)
	require.NoError(t, reg.ValidateCall(swarmkit.ToolCall{Name: "ping"}))
}
