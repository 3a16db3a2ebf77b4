package authx

import (
	"context"
	"net/http"

	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/restmachinery"
)

// PasswordsClient is the specialized client for password recovery.
type PasswordsClient interface {
	// Forgot starts password recovery for the account registered to the
	// specified email address and returns the pending verification reference
	// of the OTP challenge that was issued.
	Forgot(ctx context.Context, email string) (string, error)
	// Change sets a new password for the account whose OTP challenge,
	// identified by hashedID, has been answered.
	Change(
		ctx context.Context,
		hashedID string,
		password string,
		confirm string,
	) error
}

type passwordsClient struct {
	*restmachinery.BaseClient
}

// NewPasswordsClient returns a specialized client for password recovery.
func NewPasswordsClient(
	apiAddress string,
	opts *restmachinery.APIClientOptions,
) PasswordsClient {
	return &passwordsClient{
		BaseClient: restmachinery.NewBaseClient(apiAddress, "", opts),
	}
}

func (p *passwordsClient) Forgot(
	ctx context.Context,
	email string,
) (string, error) {
	result := LoginResult{}
	if err := p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   "auth/forgot-password",
			ReqBodyObj: struct {
				Email string `json:"email"`
			}{
				Email: email,
			},
			RespObj: &result,
		},
	); err != nil {
		return "", err
	}
	if result.User.HashedID == "" {
		return "", &meta.ErrUnexpectedResponse{
			Reason: "password recovery was accepted but no verification " +
				"reference was returned",
		}
	}
	return result.User.HashedID, nil
}

func (p *passwordsClient) Change(
	ctx context.Context,
	hashedID string,
	password string,
	confirm string,
) error {
	return p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   "auth/change-password",
			ReqBodyObj: struct {
				HashedID string `json:"hashed_id"`
				Password string `json:"password"`
				Confirm  string `json:"confirm"`
			}{
				HashedID: hashedID,
				Password: password,
				Confirm:  confirm,
			},
		},
	)
}
