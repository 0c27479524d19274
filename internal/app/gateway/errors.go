// internal/app/gateway/errors.go
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a failed call to the tracking service. Status is the HTTP
// status the service answered with; Message is the best human-readable
// message extracted from its payload; Details carries the entries of an
// "errors" array when the service sends one.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tracking service: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tracking service: %d %s", e.Status, http.StatusText(e.Status))
}

// UserMessage is the message to surface to the user: the service's own
// wording when present, joined validation details otherwise, and the
// caller-supplied fallback when the payload had neither.
func (e *Error) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Details) > 0 {
		return strings.Join(e.Details, "\n")
	}
	return fallback
}

// errorBody is the service's error envelope. Different endpoints use
// different field names; all three are accepted.
type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func newError(status int, body errorBody) *Error {
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	return &Error{Status: status, Message: msg, Details: body.Errors}
}

// AsError unwraps err into a *Error if it is one.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

func hasStatus(err error, status int) bool {
	ge, ok := AsError(err)
	return ok && ge.Status == status
}

// IsUnauthorized reports a 401: the session token is no longer accepted.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports a 403: the role does not permit the operation.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports a 404.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsConflict reports a 409, e.g. assigning a band already held by
// another pilgrim.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

// IsRateLimited reports a 429.
func IsRateLimited(err error) bool { return hasStatus(err, http.StatusTooManyRequests) }

// IsValidation reports any other 4xx carrying a structured payload.
func IsValidation(err error) bool {
	ge, ok := AsError(err)
	if !ok {
		return false
	}
	switch ge.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
		http.StatusConflict, http.StatusTooManyRequests:
		return false
	}
	return ge.Status >= 400 && ge.Status < 500
}
