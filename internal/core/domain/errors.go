package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the client surfaces.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindNetwork            ErrorKind = "network"
	KindUnknown            ErrorKind = "unknown"
)

// AuthError is the uniform error shape returned by the gateway and controller.
// Message is safe to display; Err keeps the underlying cause for logs.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Kind]
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind, so the sentinels below work with
// errors.Is regardless of message or cause.
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Display returns the message to show the user.
func (e *AuthError) Display() string {
	if e.Message != "" {
		return e.Message
	}
	return defaultMessages[e.Kind]
}

var defaultMessages = map[ErrorKind]string{
	KindValidation:         "invalid input",
	KindConflict:           "account already exists",
	KindInvalidCredentials: "invalid email or password",
	KindUnauthenticated:    "not logged in",
	KindUnauthorized:       "session expired, please log in again",
	KindNetwork:            "network error, please try again",
	KindUnknown:            "unexpected response from server",
}

var (
	ErrValidation         = &AuthError{Kind: KindValidation}
	ErrConflict           = &AuthError{Kind: KindConflict}
	ErrInvalidCredentials = &AuthError{Kind: KindInvalidCredentials}
	ErrUnauthenticated    = &AuthError{Kind: KindUnauthenticated}
	ErrUnauthorized       = &AuthError{Kind: KindUnauthorized}
	ErrNetwork            = &AuthError{Kind: KindNetwork}
	ErrUnknown            = &AuthError{Kind: KindUnknown}
)

// ErrSessionNotFound is returned by session stores when no session is persisted.
var ErrSessionNotFound = errors.New("session not found")

// ErrStaleResponse is returned when a dashboard fetch completes after the session
// it was issued for has been replaced or cleared. The result is discarded.
var ErrStaleResponse = errors.New("stale response discarded")

// NewAuthError builds an AuthError of the given kind.
func NewAuthError(kind ErrorKind, msg string, cause error) *AuthError {
	return &AuthError{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of the first AuthError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
