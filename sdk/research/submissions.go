package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/restmachinery"
)

// SubmissionStatus represents where a Submission is in its review.
type SubmissionStatus string

const (
	// SubmissionStatusPending represents a Submission awaiting review.
	SubmissionStatusPending SubmissionStatus = "pending"
	// SubmissionStatusApproved represents a Submission accepted by a
	// supervisor.
	SubmissionStatusApproved SubmissionStatus = "approved"
	// SubmissionStatusRejected represents a Submission turned down by a
	// supervisor. Rejected Submissions always carry a reason.
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission represents a piece of research work a Student has handed in for
// review.
type Submission struct {
	ID          meta.ID          `json:"id"`
	Title       string           `json:"title"`
	Abstract    string           `json:"abstract,omitempty"`
	StudentID   meta.ID          `json:"student_id,omitempty"`
	StudentName string           `json:"student_name,omitempty"`
	Status      SubmissionStatus `json:"status,omitempty"`
	// Reason explains a rejection.
	Reason string `json:"reason,omitempty"`
	// FileURL locates the submitted document.
	FileURL   string     `json:"file_url,omitempty"`
	Submitted *time.Time `json:"submitted_at,omitempty"`
	Reviewed  *time.Time `json:"reviewed_at,omitempty"`
}

// SubmissionList is an ordered and pageable list of Submissions.
type SubmissionList struct {
	// ListMeta contains list metadata.
	meta.ListMeta `json:"metadata"`
	// Items is a slice of Submissions.
	Items []Submission `json:"items,omitempty"`
}

// SubmissionsSelector represents useful filter criteria when selecting
// multiple Submissions for API group operations like list.
type SubmissionsSelector struct {
	Status    SubmissionStatus
	StudentID meta.ID
	// Search matches Submissions whose title or student name contains the
	// specified text.
	Search string
}

// SubmissionsClient is the specialized client for reviewing Submissions.
type SubmissionsClient interface {
	// List returns a SubmissionList, with its Items ordered by submission time,
	// most recent first.
	List(
		context.Context,
		*SubmissionsSelector,
		*meta.ListOptions,
	) (SubmissionList, error)
	// Get retrieves a single Submission specified by its identifier.
	Get(context.Context, meta.ID) (Submission, error)
	// Update edits the title and abstract of an existing Submission.
	Update(context.Context, Submission) error
	// Approve accepts a Submission.
	Approve(context.Context, meta.ID) error
	// Reject turns down a Submission. A reason is mandatory.
	Reject(ctx context.Context, id meta.ID, reason string) error
}

type submissionsClient struct {
	*restmachinery.BaseClient
}

// NewSubmissionsClient returns a specialized client for reviewing
// Submissions.
func NewSubmissionsClient(
	apiAddress string,
	apiToken string,
	opts *restmachinery.APIClientOptions,
) SubmissionsClient {
	return &submissionsClient{
		BaseClient: restmachinery.NewBaseClient(apiAddress, apiToken, opts),
	}
}

func (s *submissionsClient) List(
	ctx context.Context,
	selector *SubmissionsSelector,
	opts *meta.ListOptions,
) (SubmissionList, error) {
	queryParams := map[string]string{}
	if selector != nil {
		queryParams["status"] = string(selector.Status)
		queryParams["student_id"] = selector.StudentID.String()
		queryParams["search"] = selector.Search
	}
	appendListQueryParams(queryParams, opts)
	submissions := SubmissionList{}
	return submissions, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "research",
			AuthHeaders: s.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
			RespObj:     &submissions,
		},
	)
}

func (s *submissionsClient) Get(
	ctx context.Context,
	id meta.ID,
) (Submission, error) {
	submission := Submission{}
	return submission, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("research/%s", id),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &submission,
		},
	)
}

func (s *submissionsClient) Update(
	ctx context.Context,
	submission Submission,
) error {
	if submission.ID == "" {
		return &meta.ErrValidation{
			Field:  "id",
			Reason: "A submission must be identified before it can be updated.",
		}
	}
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        fmt.Sprintf("research/%s", submission.ID),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			ReqBodyObj: struct {
				Title    string `json:"title"`
				Abstract string `json:"abstract,omitempty"`
			}{
				Title:    submission.Title,
				Abstract: submission.Abstract,
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *submissionsClient) Approve(ctx context.Context, id meta.ID) error {
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        fmt.Sprintf("research/%s/approve", id),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *submissionsClient) Reject(
	ctx context.Context,
	id meta.ID,
	reason string,
) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &meta.ErrValidation{
			Field:  "reason",
			Reason: "Please explain why the submission is being rejected.",
		}
	}
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        fmt.Sprintf("research/%s/reject", id),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			ReqBodyObj: struct {
				Reason string `json:"reason"`
			}{
				Reason: reason,
			},
			SuccessCode: http.StatusOK,
		},
	)
}
