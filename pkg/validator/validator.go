// Package validator provides small composable validation rules for request
// input. Rules are applied eagerly and all failures are collected so callers
// can report every invalid field at once.
package validator

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError describes a single failed rule.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is the error type returned by Apply.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns a field -> messages map, useful for JSON error details.
func (ve ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, e := range ve {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Rule is a single validation check.
type Rule struct {
	Check   func() bool
	Field   string
	Message string
}

// Apply runs all rules and returns the collected failures, or nil when every
// rule passes.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			errs = append(errs, ValidationError{Field: r.Field, Message: r.Message})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidEmail checks that value parses as an RFC 5322 address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Field:   field,
		Message: "must be a valid email address",
	}
}

// Required checks that value is non-empty after trimming.
func Required(field, value string) Rule {
	return Rule{
		Check:   func() bool { return strings.TrimSpace(value) != "" },
		Field:   field,
		Message: "is required",
	}
}

// MinLen checks a minimum length, used for password inputs.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check:   func() bool { return len(value) >= min },
		Field:   field,
		Message: fmt.Sprintf("must be at least %d characters", min),
	}
}
