package validation

import (
	"errors"
	"reflect"
	"slices"
	"sort"
	"strings"

	"talentify-client/internal/entity"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the first field in sorted order.
func (e FieldErrors) First() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return e[keys[0]]
}

// messages overrides the generic text for a field/tag pair.
var messages = map[string]string{
	"email.required":              "Email is required",
	"email.email":                 "Please enter a valid email address",
	"password.required":           "Password is required",
	"confirmPassword.required":    "Please confirm your password",
	"confirmPassword.eqfield":     "Passwords do not match",
	"forgotEmail.required":        "Email is required",
	"forgotEmail.email":           "Please enter a valid email address",
	"newPassword.required":        "New password is required.",
	"confirmNewPassword.required": "Please confirm your new password.",
	"confirmNewPassword.eqfield":  "Passwords do not match.",
	"otp.otp":                     "Please enter a valid 6-digit OTP",
	"title.required":              "Job title is required",
	"description.required":        "Job description is required",
	"skills.min":                  "At least one skill is required",
	"fullName.required":           "Full name is required",
	"department.required":         "Department is required",
	"department.department":       "Please select a valid department",
	"position.required":           "Position is required",
	"hrId.required":               "HR ID is required",
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return ValidOTP(fl.Field().String())
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return slices.Contains(entity.Departments, fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates a form and returns FieldErrors, or nil when the form is valid.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	if fe.Tag() == "password" {
		if err := ValidatePassword(fe.Value().(string)); err != nil {
			return err.Error()
		}
	}
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please enter a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
