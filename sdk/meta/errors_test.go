package meta

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testErrorReason = "i don't have to answer to you"

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{
		Field:  "code",
		Reason: testErrorReason,
	}
	require.Equal(t, testErrorReason, err.Error())
}

func TestErrRejected(t *testing.T) {
	testCases := []struct {
		name       string
		err        *ErrRejected
		assertions func(t *testing.T, err *ErrRejected)
	}{
		{
			name: "with message",
			err: &ErrRejected{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid code",
			},
			assertions: func(t *testing.T, err *ErrRejected) {
				require.Equal(t, "Invalid code", err.Error())
			},
		},
		{
			name: "without message",
			err: &ErrRejected{
				StatusCode: http.StatusInternalServerError,
			},
			assertions: func(t *testing.T, err *ErrRejected) {
				require.Equal(t, GenericFailureMessage, err.Error())
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.assertions(t, testCase.err)
		})
	}
}

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil",
			expected: "",
		},
		{
			name:     "validation error",
			err:      &ErrValidation{Reason: "Enter all 6 digits"},
			expected: "Enter all 6 digits",
		},
		{
			name: "wrapped rejection",
			err: errors.Wrap(
				&ErrRejected{Message: "Invalid code"},
				"error verifying code",
			),
			expected: "Invalid code",
		},
		{
			name:     "transport error",
			err:      errors.Wrap(errors.New("connection refused"), "error invoking API"),
			expected: "Unable to reach the server: error invoking API: connection refused",
		},
		{
			name: "unexpected response",
			err: errors.Wrap(
				&ErrUnexpectedResponse{Reason: "no session token was issued"},
				"error verifying code",
			),
			expected: "The server sent an unexpected response: no session token " +
				"was issued",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, UserMessage(testCase.err))
		})
	}
}

func TestIsAccountUnverified(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "structured kind",
			err:      &ErrRejected{Kind: KindAccountUnverified},
			expected: true,
		},
		{
			name:     "legacy message",
			err:      &ErrRejected{Message: "Your account is not verified yet"},
			expected: true,
		},
		{
			name:     "unrelated rejection",
			err:      &ErrRejected{Message: "Invalid credentials"},
			expected: false,
		},
		{
			name:     "not a rejection",
			err:      errors.New("account not verified"),
			expected: false,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, IsAccountUnverified(testCase.err))
		})
	}
}
