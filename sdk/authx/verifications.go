package authx

import (
	"context"
	"net/http"

	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/restmachinery"
)

// SessionCookieName is the name of the cookie in which the API server returns
// the verification token upon successful email verification.
const SessionCookieName = "session_id"

const verifyEmailPath = "auth/verify-email"

// Verification is the outcome of a successful email verification.
type Verification struct {
	Message string `json:"message,omitempty"`
	// Token is the verification token issued for the verified login attempt.
	// It is taken from the response body when present there and from the
	// session cookie otherwise.
	Token string `json:"session_id,omitempty"`
}

// VerificationsClient is the specialized client for answering one-time code
// challenges.
type VerificationsClient interface {
	// Verify submits a one-time code for the challenge identified by hashedID.
	// A success that yields no token is returned as a
	// *meta.ErrUnexpectedResponse.
	Verify(ctx context.Context, hashedID string, code string) (Verification, error)
	// Resend asks the API server to issue a fresh code for the challenge
	// identified by hashedID.
	Resend(ctx context.Context, hashedID string) error
}

type verificationsClient struct {
	*restmachinery.BaseClient
}

// NewVerificationsClient returns a specialized client for answering one-time
// code challenges. Callers that need the session cookie set by a successful
// verification should supply a cookie jar via opts.
func NewVerificationsClient(
	apiAddress string,
	opts *restmachinery.APIClientOptions,
) VerificationsClient {
	return &verificationsClient{
		BaseClient: restmachinery.NewBaseClient(apiAddress, "", opts),
	}
}

func (v *verificationsClient) Verify(
	ctx context.Context,
	hashedID string,
	code string,
) (Verification, error) {
	verification := Verification{}
	if err := v.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   verifyEmailPath,
			FormFields: map[string]string{
				"hashed_id": hashedID,
				"code":      code,
			},
			RespObj: &verification,
		},
	); err != nil {
		return verification, err
	}
	if verification.Token == "" {
		verification.Token = v.Cookie(verifyEmailPath, SessionCookieName)
	}
	if verification.Token == "" {
		return verification, &meta.ErrUnexpectedResponse{
			Reason: "the code was accepted but no session token was issued",
		}
	}
	return verification, nil
}

func (v *verificationsClient) Resend(
	ctx context.Context,
	hashedID string,
) error {
	return v.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method: http.MethodPost,
			Path:   "auth/resend-code",
			ReqBodyObj: struct {
				HashedID string `json:"hashed_id"`
			}{
				HashedID: hashedID,
			},
		},
	)
}
