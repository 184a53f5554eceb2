// Package order holds the checkout order value and its form validation.
package order

import (
	"fmt"
	"regexp"
	"strings"
)

// Order is created at checkout submission and carries the buyer's contact
// details plus the lot identities from the basket. It is not persisted
// beyond the submission call.
type Order struct {
	Email string
	Phone string
	Items []string
}

// Confirmation is the service's acknowledgement of a submitted order.
type Confirmation struct {
	ID string
}

// Form is the UI-origin checkout submission.
type Form struct {
	Email string
	Phone string
}

// ValidationError reports a malformed checkout field. It is handled inline
// at the presentation boundary and never broadcast on the event bus.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharRe = regexp.MustCompile(`^\+?[0-9()\-\s]+$`)
	digitRe     = regexp.MustCompile(`[0-9]`)
)

// Validate checks the form fields. Field masking is the rendering surface's
// concern; a phone is acceptable in any common notation as long as it
// carries 10 to 15 digits.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Email) == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if !emailRe.MatchString(f.Email) {
		return &ValidationError{Field: "email", Reason: "malformed address"}
	}
	if strings.TrimSpace(f.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "required"}
	}
	if !phoneCharRe.MatchString(f.Phone) {
		return &ValidationError{Field: "phone", Reason: "unexpected characters"}
	}
	digits := len(digitRe.FindAllString(f.Phone, -1))
	if digits < 10 || digits > 15 {
		return &ValidationError{Field: "phone", Reason: "must contain 10 to 15 digits"}
	}
	return nil
}
