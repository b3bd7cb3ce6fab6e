// Package apierror defines the closed set of error kinds surfaced by the
// console SDK. Every remote-call failure is translated into one of these
// kinds before it reaches a caller - raw transport errors are never returned
// directly. Callers branch on the concrete type (or use errors.As) to decide
// how to react, e.g. prompting for a password change on PasswordExpiredError.
package apierror

import "errors"

// ErrNotFound is returned by the generic API client when the server responds
// with HTTP 404. Service clients translate it into a domain-specific error
// (e.g. a job or code category not found) before returning to the caller.
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned by the generic API client when the server responds
// with HTTP 409. Service clients translate it into a domain-specific
// duplicate-resource error.
var ErrConflict = errors.New("resource conflict")

// LoginError indicates that authentication failed because the credentials
// were rejected, or because of an otherwise unclassified 400 response from
// the token endpoint during a password grant.
type LoginError struct {
	Message string
	Cause   error
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return "login failed"
	}
	return "login failed: " + e.Message
}

func (e *LoginError) Unwrap() error { return e.Cause }

// UserLockedError indicates the account has been locked, typically after too
// many failed login attempts.
type UserLockedError struct {
	Cause error
}

func (e *UserLockedError) Error() string { return "user locked" }

func (e *UserLockedError) Unwrap() error { return e.Cause }

// PasswordExpiredError indicates the credentials have expired and the user
// must change their password before authenticating again.
type PasswordExpiredError struct {
	Cause error
}

func (e *PasswordExpiredError) Error() string { return "password expired" }

func (e *PasswordExpiredError) Unwrap() error { return e.Cause }

// AccessDeniedError indicates the server rejected the request outright
// (403-class responses).
type AccessDeniedError struct {
	Message string
	Cause   error
}

func (e *AccessDeniedError) Error() string {
	if e.Message == "" {
		return "access denied"
	}
	return "access denied: " + e.Message
}

func (e *AccessDeniedError) Unwrap() error { return e.Cause }

// InvalidArgumentError indicates the request itself was malformed
// (400-class responses that are not grant-specific).
type InvalidArgumentError struct {
	Message string
	Cause   error
}

func (e *InvalidArgumentError) Error() string {
	if e.Message == "" {
		return "invalid argument"
	}
	return "invalid argument: " + e.Message
}

func (e *InvalidArgumentError) Unwrap() error { return e.Cause }

// CommunicationError indicates a transport-level failure: no response,
// a malformed response, or an unreachable network.
type CommunicationError struct {
	Cause error
}

func (e *CommunicationError) Error() string {
	if e.Cause != nil {
		return "communication error: " + e.Cause.Error()
	}
	return "communication error"
}

func (e *CommunicationError) Unwrap() error { return e.Cause }

// ServiceUnavailableError is the fallback for any failure that does not match
// a more specific kind. It always carries a human-readable description plus
// the original cause for diagnostics.
type ServiceUnavailableError struct {
	Message string
	Cause   error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Message == "" {
		return "service unavailable"
	}
	return "service unavailable: " + e.Message
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Cause }
