package treasury

import (
	"errors"
	"strings"
	"unicode"
)

// UserInput carries the caller-supplied fields of a new user
type UserInput struct {
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Role   UserRole     `json:"role"`
	Status RecordStatus `json:"status"` // Empty means pending
	Avatar string       `json:"avatar,omitempty"`
}

// Validate checks a new user request, joining every field problem
func (in UserInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	}
	if at := strings.Index(in.Email, "@"); at <= 0 || at == len(in.Email)-1 {
		errs = append(errs, ValidationError{Field: "email", Message: "must be an email address"})
	}
	if !in.Role.Valid() {
		errs = append(errs, ValidationError{Field: "role", Message: "unknown role " + string(in.Role)})
	}
	switch in.Status {
	case "", RecordStatusActive, RecordStatusInactive, RecordStatusPending:
	default:
		errs = append(errs, ValidationError{Field: "status", Message: "unknown status " + string(in.Status)})
	}
	return errors.Join(errs...)
}

// Initials derives avatar initials from a display name, e.g. "John Doe" -> "JD"
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}
