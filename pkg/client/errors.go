package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from the API.
// Message holds the backend's structured message and is empty when the
// response body carried none.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// AuthReason distinguishes the two ways authentication can fail.
type AuthReason int

const (
	InvalidCredentials AuthReason = iota + 1
	Unauthorized
)

func (r AuthReason) String() string {
	switch r {
	case InvalidCredentials:
		return "invalid credentials"
	case Unauthorized:
		return "unauthorized"
	}
	return "auth failure"
}

// AuthError is returned when the backend refuses the caller's identity.
// Message is the backend's explanation when it gave one.
type AuthError struct {
	Reason  AuthReason
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Reason.String() + ": " + e.Message
	}
	return e.Reason.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is returned when the backend rejects a payload.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return "rejected: " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NetworkError wraps a transport failure: the backend was never reached or
// the exchange broke off.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthReason reports whether err is an AuthError with the given reason.
func IsAuthReason(err error, reason AuthReason) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Reason == reason
}

// genericNetworkMessage is shown when the transport failed without a backend message.
const genericNetworkMessage = "Unable to reach the store. Check your connection and try again."

// ErrorMessage turns any client error into text fit for a notification.
// A structured message from the backend wins over everything else.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		authErr *AuthError
		valErr  *ValidationError
		httpErr *HTTPError
		netErr  *NetworkError
	)
	switch {
	case errors.As(err, &authErr) && authErr.Message != "":
		return authErr.Message
	case errors.As(err, &valErr) && valErr.Message != "":
		return valErr.Message
	case errors.As(err, &httpErr) && httpErr.Message != "":
		return httpErr.Message
	case errors.As(err, &netErr):
		return genericNetworkMessage
	case authErr != nil && authErr.Reason == InvalidCredentials:
		return "Invalid email or password"
	case authErr != nil && authErr.Reason == Unauthorized:
		return "Your session has expired. Please log in again."
	case httpErr != nil:
		return fmt.Sprintf("Request failed with status code %d", httpErr.StatusCode)
	}
	return err.Error()
}
