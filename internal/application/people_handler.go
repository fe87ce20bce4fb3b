package application

import (
	"context"
	"fmt"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for people operations
const (
	ToolSearchPerson  = "mcp_tmdb_search_person"
	ToolPopularPeople = "mcp_tmdb_get_popular_people"
)

// PeopleHandler implements ToolHandler for person search and listing.
type PeopleHandler struct {
	client *infrastructure.TMDBClient
	tools  *toolTable
}

// NewPeopleHandler creates a new PeopleHandler instance.
func NewPeopleHandler(client *infrastructure.TMDBClient) *PeopleHandler {
	h := &PeopleHandler{client: client}

	h.tools = newToolTable(
		tool(ToolSearchPerson, "Search for people by name", searchSchema(), h.search),
		tool(ToolPopularPeople, "Get popular people", listSchema(nil), h.popular),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *PeopleHandler) ToolName() string {
	return "people"
}

// ListTools returns available tools for people operations.
func (h *PeopleHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for people operations.
func (h *PeopleHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

func (h *PeopleHandler) search(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchPeople(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	title := pageTitle(fmt.Sprintf("Found %d people for \"%s\"", len(page.Results), query), page)
	return domain.FormatPeople(page.Results, title), nil
}

func (h *PeopleHandler) popular(ctx context.Context, args map[string]interface{}) (string, error) {
	page, err := h.client.PopularPeople(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatPeople(page.Results, pageTitle("Popular People", page)), nil
}
