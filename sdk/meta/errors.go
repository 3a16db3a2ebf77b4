package meta

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// KindAccountUnverified is the structured error kind an API server uses to
// signal that credentials were valid but the account's email address was
// never verified.
const KindAccountUnverified = "ACCOUNT_UNVERIFIED"

// GenericFailureMessage is shown when an API server rejects a request without
// saying why.
const GenericFailureMessage = "Something went wrong. Please try again."

// ErrValidation represents input that was refused locally, before any request
// was sent.
type ErrValidation struct {
	// Field names the offending input, if any.
	Field string `json:"field,omitempty"`
	// Reason is the user-facing explanation.
	Reason string `json:"reason"`
}

func (e *ErrValidation) Error() string {
	return e.Reason
}

// ErrRejected represents a non-2xx response from the API server.
type ErrRejected struct {
	StatusCode int    `json:"-"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message,omitempty"`
	// HashedID is the pending verification reference an API server includes
	// with a KindAccountUnverified rejection.
	HashedID string `json:"hashed_id,omitempty"`
}

func (e *ErrRejected) Error() string {
	if e.Message == "" {
		return GenericFailureMessage
	}
	return e.Message
}

// ErrUnexpectedResponse represents a successful response from the API server
// that lacks something the client cannot do without.
type ErrUnexpectedResponse struct {
	Reason string `json:"reason"`
}

func (e *ErrUnexpectedResponse) Error() string {
	return e.Reason
}

// UserMessage renders any error as the single string that should be shown to
// a user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch e := errors.Cause(err).(type) {
	case *ErrValidation:
		return e.Reason
	case *ErrRejected:
		return e.Error()
	case *ErrUnexpectedResponse:
		return fmt.Sprintf("The server sent an unexpected response: %s", e.Reason)
	}
	return fmt.Sprintf("Unable to reach the server: %s", err)
}

// IsKind returns true if the cause of err is an ErrRejected bearing the
// specified kind.
func IsKind(err error, kind string) bool {
	rejected, ok := errors.Cause(err).(*ErrRejected)
	return ok && rejected.Kind == kind
}

// IsAccountUnverified returns true if err indicates the account behind a login
// attempt has not been verified. The structured kind is authoritative. Servers
// that predate it are recognized by their message text.
func IsAccountUnverified(err error) bool {
	if IsKind(err, KindAccountUnverified) {
		return true
	}
	rejected, ok := errors.Cause(err).(*ErrRejected)
	return ok && strings.Contains(strings.ToLower(rejected.Message), "not verified")
}
