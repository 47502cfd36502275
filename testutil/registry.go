package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skosovsky/swarmkit"
)

// NewTestRegistry returns a Registry with every callable registered, failing t if any
// schema cannot be built.
func NewTestRegistry(t testing.TB, callables ...swarmkit.Callable) *swarmkit.Registry {
	t.Helper()
	reg := swarmkit.NewRegistry()
	for _, c := range callables {
		_, err := reg.Register(c)
		require.NoError(t, err, "register %s", c.Name())
	}
	return reg
}
