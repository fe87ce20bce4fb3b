package domain

// Request represents a JSON-RPC 2.0 request message.
// A request without an ID is a notification and receives no response.
type Request struct {
	JSONRPC string      `json:"jsonrpc"` // Must be "2.0"
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`

	// SessionID identifies the transport session the request arrived on.
	// It is never serialized; the HTTP transport uses it to route the reply.
	SessionID string `json:"-"`
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response represents a JSON-RPC 2.0 response message.
type Response struct {
	JSONRPC string      `json:"jsonrpc"` // Must be "2.0"
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`

	SessionID string `json:"-"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	return e.Message
}

// NewErrorResponse builds a JSON-RPC error response for the given request ID.
func NewErrorResponse(id interface{}, code int, message string, data interface{}) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// JSON-RPC 2.0 error codes
const (
	// Standard JSON-RPC 2.0 error codes
	ParseError     = -32700 // Invalid JSON received
	InvalidRequest = -32600 // Invalid JSON-RPC request structure
	MethodNotFound = -32601 // Unknown MCP method
	InvalidParams  = -32602 // Invalid method parameters
	InternalError  = -32603 // Server internal error

	// Application-specific error codes
	ConfigurationFailed  = -32001 // Configuration validation failed
	AuthenticationFailed = -32002 // TMDB rejected the API key
	UpstreamAPIError     = -32003 // TMDB returned a non-success status
	NetworkFailure       = -32004 // Network connectivity issue
	RateLimited          = -32005 // TMDB rate limit exceeded
	DecodeFailure        = -32006 // TMDB returned a malformed body
)
