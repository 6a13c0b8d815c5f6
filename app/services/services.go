package services

import (
	"errors"
	"time"

	"inkpot/app/models"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Fields.Error()
}

// FieldErrors extracts the field messages from err, or nil when err is not a ValidationError.
func FieldErrors(err error) models.FieldErrors {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
