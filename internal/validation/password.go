package validation

import (
	"strings"
	"unicode"
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const MinPasswordLength = 8

// PasswordRequirement is one predicate of the password policy.
type PasswordRequirement struct {
	Key   string
	Label string
	Met   bool
}

// CheckPassword evaluates every predicate of the policy. Sign-up and password
// reset both go through it.
func CheckPassword(password string) []PasswordRequirement {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return []PasswordRequirement{
		{Key: "length", Label: "at least 8 characters", Met: len([]rune(password)) >= MinPasswordLength},
		{Key: "uppercase", Label: "one uppercase letter", Met: upper},
		{Key: "lowercase", Label: "one lowercase letter", Met: lower},
		{Key: "number", Label: "one number", Met: digit},
		{Key: "special", Label: "one special character", Met: symbol},
	}
}

type PasswordPolicyError struct {
	Unmet []PasswordRequirement
}

func (e *PasswordPolicyError) Error() string {
	labels := make([]string, 0, len(e.Unmet))
	for _, r := range e.Unmet {
		labels = append(labels, r.Label)
	}
	return "Password must contain " + strings.Join(labels, ", ")
}

// ValidatePassword returns a *PasswordPolicyError naming every unmet predicate.
func ValidatePassword(password string) error {
	var unmet []PasswordRequirement
	for _, r := range CheckPassword(password) {
		if !r.Met {
			unmet = append(unmet, r)
		}
	}
	if len(unmet) == 0 {
		return nil
	}
	return &PasswordPolicyError{Unmet: unmet}
}

// ValidOTP reports whether code is exactly six ASCII digits.
func ValidOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
