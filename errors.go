package urlvault

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT     = "conflict"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	EFETCH        = "fetch"
	EAUTH         = "auth"
	EQUOTA        = "quota"
	ERETRYABLE    = "retryable"
	EFORMAT       = "format"
	ENOCREDENTIAL = "no_credential"
)

// Error represents an application-specific error. Code identifies the class
// of failure; Message is safe to show to the user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("urlvault error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors keep their native message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Remediation returns a user hint for failures the user can fix themselves.
// It returns an empty string for every other error.
func Remediation(err error) string {
	switch ErrorCode(err) {
	case EAUTH:
		return "Check that your API key is valid and has not been revoked."
	case EQUOTA:
		return "Your account has no remaining quota; check your plan and billing details."
	case ENOCREDENTIAL:
		return "Set your API key with 'urlvault key set' or the provider's environment variable."
	}
	return ""
}
