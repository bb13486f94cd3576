package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds returned by the client. Callers branch on them with errors.Is;
// non-2xx responses additionally carry a *StatusError.
var (
	// ErrConfiguration is returned before any network call when the API key is missing.
	ErrConfiguration = errors.New("API key is required")

	// ErrInvalidCredentials is returned for HTTP 401.
	ErrInvalidCredentials = errors.New("invalid API key")

	// ErrRateLimited is returned for HTTP 429.
	ErrRateLimited = errors.New("rate limited by API")

	// ErrUpstreamUnavailable is returned for HTTP 5xx.
	ErrUpstreamUnavailable = errors.New("API service unavailable")

	// ErrAPI covers every other failed response, including malformed bodies.
	ErrAPI = errors.New("API request failed")

	// ErrNetwork is returned when the request never produced a response (DNS, connection).
	ErrNetwork = errors.New("network error")

	// ErrCancelled is returned when the request was aborted by the caller or by the timeout.
	ErrCancelled = errors.New("request cancelled")

	// ErrNotFound is returned by dictionary lookups that find nothing.
	ErrNotFound = errors.New("definition not found")
)

// errTimedOut is the cancellation cause recorded when the timeout aborts a request.
var errTimedOut = errors.New("timed out waiting for response")

// StatusError describes a non-2xx response. It unwraps to its error kind.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
	kind       error
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	kind := ErrAPI
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case resp.StatusCode >= http.StatusInternalServerError:
		kind = ErrUpstreamUnavailable
	}

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(body)),
		kind:       kind,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// transportError classifies a failure that happened before a response was read.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// ErrorType maps an error to a stable snake_case name for machine-readable output.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAPI):
		return "api_error"
	}

	var typed interface{ ErrorType() string }
	if errors.As(err, &typed) {
		return typed.ErrorType()
	}
	return "unknown_error"
}
