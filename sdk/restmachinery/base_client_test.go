package restmachinery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewBaseClient(t *testing.T) {
	jar := NewCookieJar()
	client := NewBaseClient(
		"https://research.example.com/",
		"sometoken",
		&APIClientOptions{
			AllowInsecureConnections: true,
			CookieJar:                jar,
		},
	)
	require.Equal(t, "https://research.example.com", client.APIAddress)
	require.Equal(t, "sometoken", client.APIToken)
	require.Equal(t, jar, client.HTTPClient.Jar)
	require.True(
		t,
		client.HTTPClient.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify, // nolint: lll
	)
}

func TestBaseClientExecuteRequest(t *testing.T) {
	type thing struct {
		Name string `json:"name"`
	}
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		req        OutboundRequest
		assertions func(t *testing.T, respObj *thing, err error)
	}{
		{
			name: "json round trip",
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/things", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusCreated)
				fmt.Fprint(w, `{"name":"widget"}`)
			},
			req: OutboundRequest{
				Method:     http.MethodPost,
				Path:       "things",
				ReqBodyObj: thing{Name: "widget"},
			},
			assertions: func(t *testing.T, respObj *thing, err error) {
				require.NoError(t, err)
				require.Equal(t, "widget", respObj.Name)
			},
		},
		{
			name: "multipart form",
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseMultipartForm(1024))
				require.Equal(t, "h1", r.FormValue("hashed_id"))
				require.Equal(t, "123456", r.FormValue("code"))
				w.WriteHeader(http.StatusOK)
			},
			req: OutboundRequest{
				Method: http.MethodPost,
				Path:   "auth/verify-email",
				FormFields: map[string]string{
					"hashed_id": "h1",
					"code":      "123456",
				},
			},
			assertions: func(t *testing.T, respObj *thing, err error) {
				require.NoError(t, err)
				require.Empty(t, respObj.Name)
			},
		},
		{
			name: "rejection with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"message":"Invalid code","kind":"INVALID_CODE"}`)
			},
			req: OutboundRequest{
				Method: http.MethodPost,
				Path:   "things",
			},
			assertions: func(t *testing.T, respObj *thing, err error) {
				require.Error(t, err)
				rejected, ok := errors.Cause(err).(*meta.ErrRejected)
				require.True(t, ok)
				require.Equal(t, http.StatusBadRequest, rejected.StatusCode)
				require.Equal(t, "INVALID_CODE", rejected.Kind)
				require.Equal(t, "Invalid code", rejected.Message)
			},
		},
		{
			name: "rejection without usable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				fmt.Fprint(w, "<html>oops</html>")
			},
			req: OutboundRequest{
				Method: http.MethodGet,
				Path:   "things",
			},
			assertions: func(t *testing.T, respObj *thing, err error) {
				require.Error(t, err)
				require.Equal(t, meta.GenericFailureMessage, meta.UserMessage(err))
			},
		},
		{
			name: "unexpected success code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			req: OutboundRequest{
				Method:      http.MethodPost,
				Path:        "things",
				SuccessCode: http.StatusCreated,
			},
			assertions: func(t *testing.T, respObj *thing, err error) {
				require.Error(t, err)
				require.IsType(t, &meta.ErrRejected{}, errors.Cause(err))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(testCase.handler)
			defer server.Close()
			client := NewBaseClient(server.URL, "sometoken", nil)
			testCase.req.AuthHeaders = client.BearerTokenAuthHeaders()
			respObj := &thing{}
			testCase.req.RespObj = respObj
			err := client.ExecuteRequest(context.Background(), testCase.req)
			testCase.assertions(t, respObj, err)
		})
	}
}

func TestBaseClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()
	client := NewBaseClient(address, "", nil)
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method: http.MethodGet,
			Path:   "things",
		},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "error invoking API")
	require.Contains(t, meta.UserMessage(err), "Unable to reach the server")
}

func TestBaseClientCookie(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(
					w,
					&http.Cookie{Name: "session_id", Value: "tok", Path: "/"},
				)
				w.WriteHeader(http.StatusOK)
			},
		),
	)
	defer server.Close()
	client := NewBaseClient(
		server.URL,
		"",
		&APIClientOptions{CookieJar: NewCookieJar()},
	)
	require.Empty(t, client.Cookie("auth/verify-email", "session_id"))
	err := client.ExecuteRequest(
		context.Background(),
		OutboundRequest{
			Method: http.MethodPost,
			Path:   "auth/verify-email",
		},
	)
	require.NoError(t, err)
	require.Equal(t, "tok", client.Cookie("auth/verify-email", "session_id"))
	require.Empty(t, client.Cookie("auth/verify-email", "other"))
}
