package session

import (
	"time"

	"github.com/krancour/resman/sdk/authx"
)

// StorageKey is the key under which the Session is kept in durable storage.
const StorageKey = "supervisorSession"

// Session is the authenticated supervisor, cached on the client. A Session is
// written as soon as credentials check out, but it only authorizes anything
// once an OTP verification has attached a Token to it.
type Session struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Profile      string `json:"profile,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Email        string `json:"email,omitempty"`
	// HashedID is the pending verification reference of the login attempt
	// that produced this Session. It allows an interrupted OTP step to be
	// resumed.
	HashedID string `json:"hashed_id,omitempty"`
	// Token is the verification token issued by the OTP step. It is empty
	// until verification succeeds.
	Token   string    `json:"token,omitempty"`
	Created time.Time `json:"created"`
}

// NewSession returns a pre-verification Session for the specified user.
func NewSession(user authx.User, created time.Time) Session {
	return Session{
		ID:           user.ID.String(),
		Name:         user.Name,
		Profile:      user.Profile,
		DepartmentID: user.DepartmentID.String(),
		Email:        user.Email,
		HashedID:     user.HashedID,
		Created:      created.UTC(),
	}
}

// Verified returns true if the Session carries both an identity and a
// verification token.
func (s Session) Verified() bool {
	return s.ID != "" && s.Token != ""
}

// Valid returns true if the Session may be used for authorization-gated
// actions, i.e. it is Verified and its Token is the one most recently issued
// for the login attempt.
func (s Session) Valid(issuedToken string) bool {
	return s.Verified() && s.Token == issuedToken
}

// Patch describes a partial update to a Session. Only non-nil fields are
// applied.
type Patch struct {
	Name         *string
	Profile      *string
	DepartmentID *string
	Email        *string
	HashedID     *string
	Token        *string
}

// String returns a pointer to s for use in a Patch.
func String(s string) *string {
	return &s
}

func (p Patch) applyTo(s *Session) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Profile != nil {
		s.Profile = *p.Profile
	}
	if p.DepartmentID != nil {
		s.DepartmentID = *p.DepartmentID
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.HashedID != nil {
		s.HashedID = *p.HashedID
	}
	if p.Token != nil {
		s.Token = *p.Token
	}
}
