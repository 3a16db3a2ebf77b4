package authflow

import (
	"context"

	"github.com/krancour/resman/internal/forms"
	"github.com/krancour/resman/sdk/authx"
)

type emailForm struct {
	Email string `form:"email" validate:"required,email" message:"Please enter a valid email address."`
}

// PasswordForm holds a new password and its confirmation.
type PasswordForm struct {
	Password string `form:"password" validate:"required" message:"Please enter a new password."`
	Confirm  string `form:"confirm" validate:"eqfield=Password" message:"Passwords do not match."`
}

// Clear blanks both fields.
func (p *PasswordForm) Clear() {
	p.Password = ""
	p.Confirm = ""
}

// Recovery runs the two API calls that bracket a password reset: requesting a
// code for an email address and, once that code is verified, setting the new
// password.
type Recovery struct {
	passwordsClient authx.PasswordsClient
}

// NewRecovery returns a Recovery.
func NewRecovery(passwordsClient authx.PasswordsClient) *Recovery {
	return &Recovery{
		passwordsClient: passwordsClient,
	}
}

// Request asks for a code to be sent to the specified email address and
// returns the pending verification reference.
func (r *Recovery) Request(ctx context.Context, email string) (string, error) {
	if err := forms.Validate(emailForm{Email: email}); err != nil {
		return "", err
	}
	return r.passwordsClient.Forgot(ctx, email)
}

// ChangePassword sets a new password for the verified reference. A mismatched
// confirmation is refused without contacting the API server. Whenever the
// change does not succeed, both fields of the form are cleared.
func (r *Recovery) ChangePassword(
	ctx context.Context,
	hashedID string,
	form *PasswordForm,
) error {
	if err := forms.Validate(form); err != nil {
		form.Clear()
		return err
	}
	if err := r.passwordsClient.Change(
		ctx,
		hashedID,
		form.Password,
		form.Confirm,
	); err != nil {
		form.Clear()
		return err
	}
	return nil
}
