package domain

import (
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports an unusable process configuration.
// It is the only error that terminates the server.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(e.Problems, "; "))
}

// ToolNotFoundError reports a tools/call for a name outside the catalog.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("Tool not found: %s", e.Name)
}

// InvalidArgumentError reports tool arguments that do not match the tool's schema.
type InvalidArgumentError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// RemoteServiceError is a non-success HTTP status returned by TMDB.
type RemoteServiceError struct {
	StatusCode int
	StatusText string
	// Message is TMDB's status_message, when the body carried one.
	Message string
}

// NewRemoteServiceError builds a RemoteServiceError, falling back to the
// canonical status text when the response did not carry one.
func NewRemoteServiceError(statusCode int, statusText, message string) *RemoteServiceError {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &RemoteServiceError{
		StatusCode: statusCode,
		StatusText: statusText,
		Message:    message,
	}
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("TMDB API error: %s (%s)", e.StatusText, e.Message)
	}
	return fmt.Sprintf("TMDB API error: %s", e.StatusText)
}

// TransportError is a failure to reach TMDB at all (DNS, connection, timeout).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("TMDB request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a TMDB response body that is not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode TMDB response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
