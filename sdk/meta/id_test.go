package meta

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected ID
	}{
		{
			name:     "string",
			json:     `"abc"`,
			expected: "abc",
		},
		{
			name:     "number",
			json:     `42`,
			expected: "42",
		},
		{
			name:     "null",
			json:     `null`,
			expected: "",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(testCase.json), &id))
			require.Equal(t, testCase.expected, id)
		})
	}
}
