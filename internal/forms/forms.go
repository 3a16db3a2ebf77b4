// Package forms validates user input before it is sent anywhere. Forms are
// plain structs whose fields carry `validate` tags understood by
// go-playground/validator, an optional `form` tag naming the field as the user
// knows it, and an optional `message` tag holding the user-facing complaint.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(field.Name)
	})
	return v
}

// Validate checks the specified form and returns a *meta.ErrValidation
// describing the first offending field, or nil if the form is acceptable.
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Wrap(err, "error validating form")
	}
	fieldErr := fieldErrs[0]
	return &meta.ErrValidation{
		Field:  fieldErr.Field(),
		Reason: message(form, fieldErr),
	}
}

func message(form interface{}, fieldErr validator.FieldError) string {
	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if field, ok := t.FieldByName(fieldErr.StructField()); ok {
		if msg := field.Tag.Get("message"); msg != "" {
			return msg
		}
	}
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("Please enter your %s.", fieldErr.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fieldErr.Field())
	case "eqfield":
		return fmt.Sprintf("%s does not match.", fieldErr.Field())
	case "min":
		return fmt.Sprintf(
			"%s must be at least %s characters long.",
			fieldErr.Field(),
			fieldErr.Param(),
		)
	}
	return fmt.Sprintf("%s is invalid.", fieldErr.Field())
}
