package domain

import (
	"context"
)

// ToolHandler serves one family of TMDB tools (movies, TV, search, ...).
type ToolHandler interface {
	// Handle processes an MCP tool call request.
	// Returns the tool response or an error if processing fails.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns the tools this handler serves.
	ListTools() []ToolDefinition

	// ToolName returns the identifier of the tool family.
	ToolName() string
}
