// Package validate holds input rules shared by services and handlers.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

func Email(v string) error {
	if v == "" {
		return model.NewValidationError("email", "Please include a valid email")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return model.NewValidationError("email", "Please include a valid email")
	}
	return nil
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func Password(v string) error {
	if len(v) < MinPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("Please enter a password with %d or more characters", MinPasswordLength))
	}
	return PasswordMaxLen(v)
}

// PasswordMaxLen rejects passwords bcrypt cannot hash.
func PasswordMaxLen(v string) error {
	if len(v) > MaxPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength))
	}
	return nil
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return model.NewValidationError(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return model.NewValidationError(field, fmt.Sprintf("%s exceeds %d characters", field, limit))
	}
	return nil
}

// MoodDate parses a caller-supplied date: RFC 3339 date-time or a bare YYYY-MM-DD (UTC midnight).
func MoodDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if dt, err := strfmt.ParseDateTime(v); err == nil {
		return time.Time(dt).UTC(), nil
	}
	if d, err := time.ParseInLocation(strfmt.RFC3339FullDate, v, time.UTC); err == nil {
		return d, nil
	}
	return time.Time{}, model.NewValidationError("date", "date must be YYYY-MM-DD or an RFC 3339 timestamp")
}
