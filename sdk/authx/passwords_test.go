package authx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordsClientForgot(t *testing.T) {
	testCases := []struct {
		name       string
		response   string
		assertions func(t *testing.T, hashedID string, err error)
	}{
		{
			name:     "success",
			response: `{"user":{"hashed_id":"h2"}}`,
			assertions: func(t *testing.T, hashedID string, err error) {
				require.NoError(t, err)
				require.Equal(t, "h2", hashedID)
			},
		},
		{
			name:     "no verification reference",
			response: `{"message":"ok"}`,
			assertions: func(t *testing.T, _ string, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "no verification reference")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(
					func(w http.ResponseWriter, r *http.Request) {
						require.Equal(t, http.MethodPost, r.Method)
						require.Equal(t, "/auth/forgot-password", r.URL.Path)
						body := map[string]string{}
						require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
						require.Equal(t, "a@b.com", body["email"])
						w.WriteHeader(http.StatusOK)
						fmt.Fprint(w, testCase.response)
					},
				),
			)
			defer server.Close()
			client := NewPasswordsClient(server.URL, nil)
			hashedID, err := client.Forgot(context.Background(), "a@b.com")
			testCase.assertions(t, hashedID, err)
		})
	}
}

func TestPasswordsClientChange(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/auth/change-password", r.URL.Path)
				body := map[string]string{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, "h2", body["hashed_id"])
				require.Equal(t, "n3w", body["password"])
				require.Equal(t, "n3w", body["confirm"])
				w.WriteHeader(http.StatusOK)
			},
		),
	)
	defer server.Close()
	client := NewPasswordsClient(server.URL, nil)
	require.NoError(
		t,
		client.Change(context.Background(), "h2", "n3w", "n3w"),
	)
}
