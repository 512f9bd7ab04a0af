package aisle

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
//
// EUNAVAILABLE and ERATELIMIT describe transient conditions and are safe to
// retry; everything else is permanent.
const (
	EEXHAUSTED   = "exhausted"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	ERATELIMIT   = "rate_limit"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message. These low-level internal error details should only be logged and
// reported to the operator of the application (not the end user).
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// RetryAfter holds the delay a rate limited source asked for, when the
	// source provided one. Only meaningful for ERATELIMIT errors.
	RetryAfter time.Duration

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
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
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// RateLimitErrorf returns an ERATELIMIT error carrying the delay the source
// asked for. A zero retryAfter means the source gave no hint.
func RateLimitErrorf(retryAfter time.Duration, format string, args ...any) *Error {
	return &Error{
		Code:       ERATELIMIT,
		Message:    fmt.Sprintf(format, args...),
		RetryAfter: retryAfter,
	}
}

// ExhaustedError returns an EEXHAUSTED error wrapping the last error seen
// before retrying was given up.
func ExhaustedError(err error, format string, args ...any) *Error {
	return &Error{
		Code:    EEXHAUSTED,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Retryable reports whether err describes a transient condition that is
// worth retrying. Unknown errors are treated as permanent.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ERATELIMIT, EUNAVAILABLE:
		return true
	}
	return false
}

// RetryAfter returns the delay a rate limited source asked for, if err
// carries one.
func RetryAfter(err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}
