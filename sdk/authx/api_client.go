package authx

import "github.com/krancour/resman/sdk/restmachinery"

// APIClient is the root of a tree of more specialized API clients within the
// authx package.
type APIClient interface {
	// Sessions returns a specialized client for logging in.
	Sessions() SessionsClient
	// Verifications returns a specialized client for one-time code challenges.
	Verifications() VerificationsClient
	// Passwords returns a specialized client for password recovery.
	Passwords() PasswordsClient
}

type apiClient struct {
	sessionsClient      SessionsClient
	verificationsClient VerificationsClient
	passwordsClient     PasswordsClient
}

// NewAPIClient returns an APIClient whose specialized clients share a single
// cookie jar.
func NewAPIClient(
	apiAddress string,
	opts *restmachinery.APIClientOptions,
) APIClient {
	shared := restmachinery.APIClientOptions{}
	if opts != nil {
		shared = *opts
	}
	if shared.CookieJar == nil {
		shared.CookieJar = restmachinery.NewCookieJar()
	}
	return &apiClient{
		sessionsClient:      NewSessionsClient(apiAddress, &shared),
		verificationsClient: NewVerificationsClient(apiAddress, &shared),
		passwordsClient:     NewPasswordsClient(apiAddress, &shared),
	}
}

func (a *apiClient) Sessions() SessionsClient {
	return a.sessionsClient
}

func (a *apiClient) Verifications() VerificationsClient {
	return a.verificationsClient
}

func (a *apiClient) Passwords() PasswordsClient {
	return a.passwordsClient
}
