package application

import (
	"context"
	"fmt"

	"tmdb-mcp-server/internal/domain"
)

// RequestRouter dispatches MCP tool requests to the appropriate ToolHandler.
// Each tool name is indexed to the handler whose catalog declares it, so the
// set of listed tools and the set of dispatchable tools are the same set.
type RequestRouter struct {
	handlers []domain.ToolHandler
	byTool   map[string]domain.ToolHandler
	mapper   domain.ResponseMapper
	logger   *domain.StructuredLogger
}

// NewRequestRouter creates a new RequestRouter with the provided handlers.
// It panics if two handlers declare the same tool name.
func NewRequestRouter(mapper domain.ResponseMapper, logger *domain.StructuredLogger, handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers: handlers,
		byTool:   make(map[string]domain.ToolHandler),
		mapper:   mapper,
		logger:   logger,
	}

	for _, handler := range handlers {
		for _, def := range handler.ListTools() {
			if owner, dup := router.byTool[def.Name]; dup {
				panic(fmt.Sprintf("application: tool %q registered by both %s and %s",
					def.Name, owner.ToolName(), handler.ToolName()))
			}
			router.byTool[def.Name] = handler
		}
	}

	return router
}

// Route dispatches a tool request to the handler that declares it.
// Returns a ToolNotFoundError for names outside the catalog.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handler, exists := r.GetHandler(req.Name)
	if !exists {
		return nil, &domain.ToolNotFoundError{Name: req.Name}
	}

	return handler.Handle(ctx, req)
}

// Execute runs a tool and never fails: any error is rendered as an
// isError result whose text starts with "Error: ".
func (r *RequestRouter) Execute(ctx context.Context, name string, args map[string]interface{}) (resp *domain.ToolResponse) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.LogError("tool panicked", fmt.Errorf("%v", p), map[string]interface{}{"tool": name})
			resp = r.mapper.MapToolError(fmt.Errorf("internal error in %s: %v", name, p))
		}
	}()

	if args == nil {
		args = map[string]interface{}{}
	}

	resp, err := r.Route(ctx, &domain.ToolRequest{Name: name, Arguments: args})
	if err != nil {
		r.logger.LogWarn("tool execution failed", map[string]interface{}{
			"tool":  name,
			"error": err.Error(),
		})
		return r.mapper.MapToolError(err)
	}
	return resp
}

// ListAllTools aggregates tool definitions from all registered handlers,
// in registration order. This is used for MCP tool discovery (tools/list method).
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	var allTools []domain.ToolDefinition
	for _, handler := range r.handlers {
		allTools = append(allTools, handler.ListTools()...)
	}
	return allTools
}

// GetHandler returns the handler that serves the named tool.
func (r *RequestRouter) GetHandler(toolName string) (domain.ToolHandler, bool) {
	handler, exists := r.byTool[toolName]
	return handler, exists
}
