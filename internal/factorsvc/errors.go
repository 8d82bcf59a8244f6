package factorsvc

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrServiceUnavailable is matched by every failed emissions calculation:
	// transport errors, timeouts, non-2xx responses and malformed bodies.
	ErrServiceUnavailable = errors.New("emission factor service unavailable")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
	// lacks emissions.CO2e.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrServiceUnavailable)

	// ErrAuthFailed is returned by Authenticate. Unlike calculation failures it
	// is not recoverable by local estimation.
	ErrAuthFailed = errors.New("emission factor service authentication failed")

	// ErrNotAuthenticated is returned by Calculate before a token is obtained.
	ErrNotAuthenticated = fmt.Errorf("%w: not authenticated", ErrServiceUnavailable)
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrServiceUnavailable.
func (e *StatusError) Unwrap() error {
	return ErrServiceUnavailable
}

// Transient reports whether the status indicates a temporary server-side problem.
func (e *StatusError) Transient() bool {
	return IsTransientHTTPStatus(e.StatusCode)
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// maxErrorBody caps how much of a failed response body is kept in a StatusError.
const maxErrorBody = 512

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
