package domain

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// ToolDefinition represents an MCP tool definition.
// This describes a tool that can be called by MCP clients.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ToolRequest represents an MCP tool call request.
// This is the request format when a client invokes a tool.
type ToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResponse represents an MCP tool call response.
// Every tool call produces exactly one text block, successful or not.
type ToolResponse struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// ContentBlock represents a piece of content in the response.
type ContentBlock struct {
	Type string `json:"type"` // always "text" for this server
	Text string `json:"text"`
}

// NewTextResponse wraps text into a successful single-block tool response.
func NewTextResponse(text string) *ToolResponse {
	return &ToolResponse{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// ResourceDescriptor describes a URI-addressable document in resources/list.
type ResourceDescriptor struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// ResourceList is the result of resources/list.
// NextCursor is present only while more pages remain.
type ResourceList struct {
	Resources  []ResourceDescriptor `json:"resources"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// ResourceContents is one document returned by resources/read.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ResourceReadResult is the result of resources/read.
type ResourceReadResult struct {
	Contents []ResourceContents `json:"contents"`
}
