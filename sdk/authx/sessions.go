package authx

import (
	"context"
	"net/http"

	"github.com/krancour/resman/sdk/restmachinery"
)

// SessionsClient is the specialized client for establishing sessions with the
// research management API.
type SessionsClient interface {
	// Login checks the provided credentials. The login may be either an email
	// address or a phone number.
	Login(ctx context.Context, login string, password string) (LoginResult, error)
}

type sessionsClient struct {
	*restmachinery.BaseClient
}

// NewSessionsClient returns a specialized client for establishing sessions.
func NewSessionsClient(
	apiAddress string,
	opts *restmachinery.APIClientOptions,
) SessionsClient {
	return &sessionsClient{
		BaseClient: restmachinery.NewBaseClient(apiAddress, "", opts),
	}
}

func (s *sessionsClient) Login(
	ctx context.Context,
	login string,
	password string,
) (LoginResult, error) {
	result := LoginResult{}
	return result, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   "auth/login",
			ReqBodyObj: struct {
				Login    string `json:"login"`
				Password string `json:"password"`
			}{
				Login:    login,
				Password: password,
			},
			RespObj: &result,
		},
	)
}
