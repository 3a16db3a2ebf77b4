package authx

import "github.com/krancour/resman/sdk/meta"

// User represents the principal returned by a successful login.
type User struct {
	ID           meta.ID `json:"id"`
	Name         string  `json:"name,omitempty"`
	DepartmentID meta.ID `json:"department_id,omitempty"`
	// Profile is the role tag of the User, e.g. "supervisor".
	Profile string `json:"profile,omitempty"`
	Email   string `json:"email,omitempty"`
	// SessionID is only present when the server issues a session at login.
	SessionID string `json:"session_id,omitempty"`
	// HashedID is the pending verification reference that correlates this
	// login attempt with its OTP challenge.
	HashedID string `json:"hashed_id,omitempty"`
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}
