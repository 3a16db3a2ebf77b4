package research

import "github.com/krancour/resman/sdk/restmachinery"

// APIClient is the root of a tree of more specialized API clients within the
// research package. Every call it makes is authorized by the bearer token it
// was constructed with.
type APIClient interface {
	// Students returns a specialized client for managing Students.
	Students() StudentsClient
	// Submissions returns a specialized client for reviewing Submissions.
	Submissions() SubmissionsClient
}

type apiClient struct {
	studentsClient    StudentsClient
	submissionsClient SubmissionsClient
}

// NewAPIClient returns an APIClient.
func NewAPIClient(
	apiAddress string,
	apiToken string,
	opts *restmachinery.APIClientOptions,
) APIClient {
	return &apiClient{
		studentsClient:    NewStudentsClient(apiAddress, apiToken, opts),
		submissionsClient: NewSubmissionsClient(apiAddress, apiToken, opts),
	}
}

func (a *apiClient) Students() StudentsClient {
	return a.studentsClient
}

func (a *apiClient) Submissions() SubmissionsClient {
	return a.submissionsClient
}
