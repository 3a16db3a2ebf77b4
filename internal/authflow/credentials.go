package authflow

import (
	"context"

	"github.com/krancour/resman/internal/forms"
	"github.com/krancour/resman/internal/session"
	"github.com/krancour/resman/sdk/authx"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/clock"
)

type loginForm struct {
	Login    string `form:"login" validate:"required" message:"Please enter your email or phone number."`
	Password string `form:"password" validate:"required" message:"Please enter your password."`
}

// CredentialVerifier checks a login identifier and password against the API
// server and records the resulting pre-verification Session.
type CredentialVerifier struct {
	sessionsClient authx.SessionsClient
	store          session.Store
	clock          clock.Clock
}

// NewCredentialVerifier returns a CredentialVerifier.
func NewCredentialVerifier(
	sessionsClient authx.SessionsClient,
	store session.Store,
	clk clock.Clock,
) *CredentialVerifier {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &CredentialVerifier{
		sessionsClient: sessionsClient,
		store:          store,
		clock:          clk,
	}
}

// Verify submits the credentials. On success the returned Session, which
// carries no token yet, has already replaced whatever Session was stored.
func (c *CredentialVerifier) Verify(
	ctx context.Context,
	login string,
	password string,
) (session.Session, error) {
	if err := forms.Validate(
		loginForm{Login: login, Password: password},
	); err != nil {
		return session.Session{}, err
	}
	result, err := c.sessionsClient.Login(ctx, login, password)
	if err != nil {
		return session.Session{}, err
	}
	if result.User.ID == "" || result.User.HashedID == "" {
		return session.Session{}, &meta.ErrUnexpectedResponse{
			Reason: "the credentials were accepted but the user returned was " +
				"incomplete",
		}
	}
	s := session.NewSession(result.User, c.clock.Now())
	if err := c.store.Write(ctx, s); err != nil {
		return session.Session{}, errors.Wrap(err, "error storing session")
	}
	return s, nil
}
