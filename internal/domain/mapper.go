package domain

// ResponseMapper converts tool output and failures into MCP responses.
type ResponseMapper interface {
	// MapToolError converts any failure into an isError tool response whose
	// single text block reads "Error: <message>".
	MapToolError(err error) *ToolResponse

	// MapError converts a failure into a JSON-RPC error for methods that have
	// no isError envelope (resources/list, resources/read).
	MapError(err error) *Error
}
