package authx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSessionsClientLogin(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		assertions func(t *testing.T, result LoginResult, err error)
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/auth/login", r.URL.Path)
				body := map[string]string{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, "a@b.com", body["login"])
				require.Equal(t, "x", body["password"])
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(
					w,
					`{"message":"Check your email","user":{"id":1,"name":"Ada",`+
						`"department_id":7,"profile":"supervisor","email":"a@b.com",`+
						`"hashed_id":"h1"}}`,
				)
			},
			assertions: func(t *testing.T, result LoginResult, err error) {
				require.NoError(t, err)
				require.Equal(t, "Check your email", result.Message)
				require.Equal(t, meta.ID("1"), result.User.ID)
				require.Equal(t, "Ada", result.User.Name)
				require.Equal(t, meta.ID("7"), result.User.DepartmentID)
				require.Equal(t, "supervisor", result.User.Profile)
				require.Equal(t, "a@b.com", result.User.Email)
				require.Equal(t, "h1", result.User.HashedID)
			},
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"Invalid credentials"}`)
			},
			assertions: func(t *testing.T, _ LoginResult, err error) {
				require.Error(t, err)
				rejected, ok := errors.Cause(err).(*meta.ErrRejected)
				require.True(t, ok)
				require.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
				require.Equal(t, "Invalid credentials", rejected.Message)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(testCase.handler)
			defer server.Close()
			client := NewSessionsClient(server.URL, nil)
			result, err := client.Login(context.Background(), "a@b.com", "x")
			testCase.assertions(t, result, err)
		})
	}
}
