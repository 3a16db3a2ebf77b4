package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// newTestSubmissionsServer fakes the research endpoints. Approvals and
// rejections are recorded in the returned map, keyed by submission ID.
func newTestSubmissionsServer(
	t *testing.T,
) (*httptest.Server, map[string]Submission) {
	reviewed := map[string]Submission{}
	router := mux.NewRouter()
	router.HandleFunc(
		"/research",
		func(w http.ResponseWriter, r *http.Request) {
			requireBearerToken(t, r)
			require.Equal(t, "pending", r.URL.Query().Get("status"))
			require.Equal(t, "thesis", r.URL.Query().Get("search"))
			fmt.Fprint(
				w,
				`{"metadata":{},"items":[{"id":1,"title":"A thesis",`+
					`"status":"pending"}]}`,
			)
		},
	).Methods(http.MethodGet)
	router.HandleFunc(
		"/research/{id}",
		func(w http.ResponseWriter, r *http.Request) {
			requireBearerToken(t, r)
			fmt.Fprintf(
				w,
				`{"id":%q,"title":"A thesis","status":"pending"}`,
				mux.Vars(r)["id"],
			)
		},
	).Methods(http.MethodGet)
	router.HandleFunc(
		"/research/{id}",
		func(w http.ResponseWriter, r *http.Request) {
			requireBearerToken(t, r)
			body := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "A better title", body["title"])
			w.WriteHeader(http.StatusOK)
		},
	).Methods(http.MethodPut)
	router.HandleFunc(
		"/research/{id}/approve",
		func(w http.ResponseWriter, r *http.Request) {
			requireBearerToken(t, r)
			id := mux.Vars(r)["id"]
			reviewed[id] = Submission{
				ID:     meta.ID(id),
				Status: SubmissionStatusApproved,
			}
			w.WriteHeader(http.StatusOK)
		},
	).Methods(http.MethodPost)
	router.HandleFunc(
		"/research/{id}/reject",
		func(w http.ResponseWriter, r *http.Request) {
			requireBearerToken(t, r)
			id := mux.Vars(r)["id"]
			body := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			reviewed[id] = Submission{
				ID:     meta.ID(id),
				Status: SubmissionStatusRejected,
				Reason: body["reason"],
			}
			w.WriteHeader(http.StatusOK)
		},
	).Methods(http.MethodPost)
	return httptest.NewServer(router), reviewed
}

func TestSubmissionsClient(t *testing.T) {
	server, reviewed := newTestSubmissionsServer(t)
	defer server.Close()
	client := NewSubmissionsClient(server.URL, testAPIToken, nil)
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		submissions, err := client.List(
			ctx,
			&SubmissionsSelector{
				Status: SubmissionStatusPending,
				Search: "thesis",
			},
			nil,
		)
		require.NoError(t, err)
		require.Len(t, submissions.Items, 1)
		require.Equal(t, SubmissionStatusPending, submissions.Items[0].Status)
	})

	t.Run("get", func(t *testing.T) {
		submission, err := client.Get(ctx, "9")
		require.NoError(t, err)
		require.Equal(t, meta.ID("9"), submission.ID)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(
			t,
			client.Update(ctx, Submission{ID: "9", Title: "A better title"}),
		)
	})

	t.Run("approve", func(t *testing.T) {
		require.NoError(t, client.Approve(ctx, "9"))
		require.Equal(t, SubmissionStatusApproved, reviewed["9"].Status)
	})

	t.Run("reject without reason", func(t *testing.T) {
		err := client.Reject(ctx, "10", "   ")
		require.IsType(t, &meta.ErrValidation{}, errors.Cause(err))
		_, ok := reviewed["10"]
		require.False(t, ok)
	})

	t.Run("reject", func(t *testing.T) {
		require.NoError(t, client.Reject(ctx, "10", "Missing citations"))
		require.Equal(t, SubmissionStatusRejected, reviewed["10"].Status)
		require.Equal(t, "Missing citations", reviewed["10"].Reason)
	})

	t.Run("not found", func(t *testing.T) {
		err := client.Approve(ctx, "9/extra")
		require.Error(t, err)
		rejected, ok := errors.Cause(err).(*meta.ErrRejected)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, rejected.StatusCode)
	})
}
