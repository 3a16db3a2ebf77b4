package research

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/krancour/resman/sdk/meta"
	"github.com/krancour/resman/sdk/restmachinery"
)

// Student represents a research student under the supervision of the
// authenticated supervisor.
type Student struct {
	ID meta.ID `json:"id"`
	// Name is the given name and surname of the Student.
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	// RegistrationNumber is the institution-issued matriculation number.
	RegistrationNumber string  `json:"registration_number,omitempty"`
	Program            string  `json:"program,omitempty"`
	DepartmentID       meta.ID `json:"department_id,omitempty"`
	SupervisorID       meta.ID `json:"supervisor_id,omitempty"`
	// Created indicates the time at which the Student record was created. This
	// is recorded by the system. Clients must leave the value of this field set
	// to nil when using the API to update Students.
	Created *time.Time `json:"created_at,omitempty"`
}

// StudentList is an ordered and pageable list of Students.
type StudentList struct {
	// ListMeta contains list metadata.
	meta.ListMeta `json:"metadata"`
	// Items is a slice of Students.
	Items []Student `json:"items,omitempty"`
}

// StudentsSelector represents useful filter criteria when selecting multiple
// Students for API group operations like list.
type StudentsSelector struct {
	// Search matches Students whose name, email or registration number contains
	// the specified text.
	Search       string
	DepartmentID meta.ID
}

// StudentsClient is the specialized client for managing Students.
type StudentsClient interface {
	// List returns a StudentList, with its Items (Students) ordered by name.
	// Criteria for which Students should be retrieved can be specified using
	// the StudentsSelector parameter.
	List(context.Context, *StudentsSelector, *meta.ListOptions) (StudentList, error)
	// Get retrieves a single Student specified by their identifier.
	Get(context.Context, meta.ID) (Student, error)
	// Update updates an existing Student.
	Update(context.Context, Student) error
}

type studentsClient struct {
	*restmachinery.BaseClient
}

// NewStudentsClient returns a specialized client for managing Students.
func NewStudentsClient(
	apiAddress string,
	apiToken string,
	opts *restmachinery.APIClientOptions,
) StudentsClient {
	return &studentsClient{
		BaseClient: restmachinery.NewBaseClient(apiAddress, apiToken, opts),
	}
}

func (s *studentsClient) List(
	ctx context.Context,
	selector *StudentsSelector,
	opts *meta.ListOptions,
) (StudentList, error) {
	queryParams := map[string]string{}
	if selector != nil {
		queryParams["search"] = selector.Search
		queryParams["department_id"] = selector.DepartmentID.String()
	}
	appendListQueryParams(queryParams, opts)
	students := StudentList{}
	return students, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "students",
			AuthHeaders: s.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
			RespObj:     &students,
		},
	)
}

func (s *studentsClient) Get(
	ctx context.Context,
	id meta.ID,
) (Student, error) {
	student := Student{}
	return student, s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("students/%s", id),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &student,
		},
	)
}

func (s *studentsClient) Update(ctx context.Context, student Student) error {
	if student.ID == "" {
		return &meta.ErrValidation{
			Field:  "id",
			Reason: "A student must be identified before it can be updated.",
		}
	}
	return s.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        fmt.Sprintf("students/%s", student.ID),
			AuthHeaders: s.BearerTokenAuthHeaders(),
			ReqBodyObj:  student,
			SuccessCode: http.StatusOK,
		},
	)
}

func appendListQueryParams(queryParams map[string]string, opts *meta.ListOptions) {
	if opts == nil {
		return
	}
	queryParams["continue"] = opts.Continue
	if opts.Limit > 0 {
		queryParams["limit"] = strconv.FormatInt(opts.Limit, 10)
	}
}
