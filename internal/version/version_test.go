package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	version = "v1.2.3"
	commit = "abc123"
	require.Equal(t, "v1.2.3", Version())
	require.Equal(t, "abc123", Commit())
	require.Equal(t, "v1.2.3 -- commit abc123", String())
}
