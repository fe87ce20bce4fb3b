package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultResponseMapper is the default implementation of ResponseMapper.
type DefaultResponseMapper struct{}

// NewResponseMapper creates a new instance of DefaultResponseMapper.
func NewResponseMapper() ResponseMapper {
	return &DefaultResponseMapper{}
}

// MapToolError converts any failure into an isError tool response.
func (m *DefaultResponseMapper) MapToolError(err error) *ToolResponse {
	message := "Unknown error occurred"
	if err != nil {
		message = err.Error()
	}

	return &ToolResponse{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + message}},
		IsError: true,
	}
}

// MapError converts a failure into a JSON-RPC error.
func (m *DefaultResponseMapper) MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var (
		rpcErr       *Error
		remoteErr    *RemoteServiceError
		transportErr *TransportError
		decodeErr    *DecodeError
		argErr       *InvalidArgumentError
		notFoundErr  *ToolNotFoundError
	)

	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.As(err, &remoteErr):
		return mapRemoteError(remoteErr)
	case errors.As(err, &transportErr):
		return &Error{Code: NetworkFailure, Message: "Network error", Data: err.Error()}
	case errors.As(err, &decodeErr):
		return &Error{Code: DecodeFailure, Message: "Malformed TMDB response", Data: err.Error()}
	case errors.As(err, &argErr):
		return &Error{Code: InvalidParams, Message: "Invalid params", Data: err.Error()}
	case errors.As(err, &notFoundErr):
		return &Error{Code: MethodNotFound, Message: "Tool not found", Data: err.Error()}
	default:
		return &Error{Code: InternalError, Message: err.Error()}
	}
}

// mapRemoteError maps TMDB HTTP status codes to JSON-RPC error codes.
func mapRemoteError(remoteErr *RemoteServiceError) *Error {
	var code int
	var message string

	switch remoteErr.StatusCode {
	case http.StatusUnauthorized:
		code = AuthenticationFailed
		message = "Authentication failed"
	case http.StatusForbidden:
		code = AuthenticationFailed
		message = "Access forbidden - insufficient permissions"
	case http.StatusNotFound:
		code = UpstreamAPIError
		message = "Resource not found"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = InvalidParams
		message = "Bad request - invalid parameters"
	case http.StatusTooManyRequests:
		code = RateLimited
		message = "Rate limit exceeded"
	case http.StatusServiceUnavailable:
		code = NetworkFailure
		message = "Service unavailable"
	case http.StatusGatewayTimeout:
		code = NetworkFailure
		message = "Gateway timeout"
	default:
		code = UpstreamAPIError
		if remoteErr.StatusCode >= 500 {
			message = fmt.Sprintf("Server error: %s", remoteErr.StatusText)
		} else {
			message = fmt.Sprintf("Client error: %s", remoteErr.StatusText)
		}
	}

	data := map[string]interface{}{
		"statusCode": remoteErr.StatusCode,
		"status":     remoteErr.StatusText,
	}
	if remoteErr.Message != "" {
		data["message"] = remoteErr.Message
	}

	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
