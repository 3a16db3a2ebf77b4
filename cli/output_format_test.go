package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"table", "yaml", "json", "JSON"} {
		require.NoError(t, validateOutputFormat(format))
	}
	require.Error(t, validateOutputFormat("xml"))
}

func TestConfirm(t *testing.T) {
	confirmed, err := confirm(true, "Are you sure?")
	require.NoError(t, err)
	require.True(t, confirmed)
}
