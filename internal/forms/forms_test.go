package forms

import (
	"testing"

	"github.com/krancour/resman/sdk/meta"
	"github.com/stretchr/testify/require"
)

type testForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"eqfield=Password" message:"Passwords do not match."`
	Code     string `form:"code" validate:"omitempty,len=6,number"`
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		form       testForm
		assertions func(*testing.T, error)
	}{
		{
			name: "valid",
			form: testForm{
				Email:    "a@b.com",
				Password: "password",
				Confirm:  "password",
				Code:     "123456",
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "missing field",
			form: testForm{Password: "password", Confirm: "password"},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.IsType(t, &meta.ErrValidation{}, err)
				validationErr := err.(*meta.ErrValidation)
				require.Equal(t, "email", validationErr.Field)
				require.Equal(t, "Please enter your email.", validationErr.Reason)
			},
		},
		{
			name: "bad email",
			form: testForm{
				Email:    "nope",
				Password: "password",
				Confirm:  "password",
			},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.Equal(t, "email must be a valid email address.", err.Error())
			},
		},
		{
			name: "too short",
			form: testForm{Email: "a@b.com", Password: "pass", Confirm: "pass"},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.Equal(
					t,
					"password must be at least 8 characters long.",
					err.Error(),
				)
			},
		},
		{
			name: "custom message",
			form: testForm{
				Email:    "a@b.com",
				Password: "password",
				Confirm:  "passw0rd",
			},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.Equal(t, "confirm", err.(*meta.ErrValidation).Field)
				require.Equal(t, "Passwords do not match.", err.Error())
			},
		},
		{
			name: "fallback message",
			form: testForm{
				Email:    "a@b.com",
				Password: "password",
				Confirm:  "password",
				Code:     "12345a",
			},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.Equal(t, "code is invalid.", err.Error())
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.assertions(t, Validate(testCase.form))
		})
	}
}
