package google

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Error kinds surfaced by every command. Callers match them with errors.Is.
var (
	// ErrAuthorization indicates denied consent, an invalid or expired code,
	// or a failed token exchange or refresh.
	ErrAuthorization = errors.New("google: authorization failed")

	// ErrIO indicates a local input, file or listener failure.
	ErrIO = errors.New("google: local i/o failure")

	// ErrRemoteAPI indicates a non-success response from a Google API.
	ErrRemoteAPI = errors.New("google: remote api error")

	// ErrNotFound indicates an expected remote resource does not exist.
	ErrNotFound = errors.New("google: resource not found")

	// ErrNoCredential indicates the credential store holds no token.
	ErrNoCredential = errors.New("google: no stored credential")
)

// APIError is a failed Google API call. It matches ErrRemoteAPI and the
// underlying transport or googleapi error.
type APIError struct {
	Service   string
	Operation string
	// Code is the HTTP status, or 0 when no response was received.
	Code int
	Err  error
}

func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s %s: %v", e.Service, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: http %d: %v", e.Service, e.Operation, e.Code, e.Err)
}

func (e *APIError) Unwrap() []error {
	return []error{ErrRemoteAPI, e.Err}
}

// WrapAPIError classifies an error returned by a generated Google API call.
// A failed token refresh is an authorization failure rather than a remote
// API error.
func WrapAPIError(service, operation string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrAuthorization) {
		return err
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %s %s: token refresh: %w", ErrAuthorization, service, operation, err)
	}

	wrapped := &APIError{Service: service, Operation: operation, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		wrapped.Code = gerr.Code
	}
	return wrapped
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsRateLimited returns true if the error indicates rate limiting or an
// exhausted quota.
func IsRateLimited(err error) bool {
	switch StatusCode(err) {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			for _, item := range gerr.Errors {
				if item.Reason == "rateLimitExceeded" || item.Reason == "quotaExceeded" || item.Reason == "userRateLimitExceeded" {
					return true
				}
			}
		}
	}
	return false
}
