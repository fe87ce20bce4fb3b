package application

import (
	"context"
	"fmt"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for trending operations
const (
	ToolTrending       = "mcp_tmdb_get_trending"
	ToolTrendingAll    = "mcp_tmdb_get_trending_all"
	ToolTrendingMovies = "mcp_tmdb_get_trending_movies"
	ToolTrendingTV     = "mcp_tmdb_get_trending_tv"
	ToolTrendingPeople = "mcp_tmdb_get_trending_people"
)

const trendingShown = 10

// TrendingHandler implements ToolHandler for the /trending endpoints.
type TrendingHandler struct {
	client *infrastructure.TMDBClient
	tools  *toolTable
}

// NewTrendingHandler creates a new TrendingHandler instance.
func NewTrendingHandler(client *infrastructure.TMDBClient) *TrendingHandler {
	h := &TrendingHandler{client: client}

	h.tools = newToolTable(
		tool(ToolTrending, "Get trending movies for a time window",
			objectSchema(props{"timeWindow": enumProp("Time window for trending movies", "day", "week")}, "timeWindow"),
			h.trending),
		tool(ToolTrendingAll, "Get trending items (movies, TV shows, people)", trendingSchema(), h.all),
		tool(ToolTrendingMovies, "Get trending movies", trendingSchema(), h.movies),
		tool(ToolTrendingTV, "Get trending TV shows", trendingSchema(), h.tv),
		tool(ToolTrendingPeople, "Get trending people", trendingSchema(), h.people),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *TrendingHandler) ToolName() string {
	return "trending"
}

// ListTools returns available tools for trending operations.
func (h *TrendingHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for trending operations.
func (h *TrendingHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

// windowArgs splits the positional time window from the query arguments.
func windowArgs(args map[string]interface{}) (string, map[string]string, error) {
	window, err := getStringParam(args, "timeWindow", true)
	if err != nil {
		return "", nil, err
	}
	return window, BuildParams(without(args, "timeWindow"), nil), nil
}

func (h *TrendingHandler) trending(ctx context.Context, args map[string]interface{}) (string, error) {
	window, params, err := windowArgs(args)
	if err != nil {
		return "", err
	}

	page, err := h.client.TrendingMovies(ctx, window, params)
	if err != nil {
		return "", err
	}
	return domain.FormatMovies(firstN(page.Results, trendingShown), fmt.Sprintf("Trending movies for the %s", window)), nil
}

func (h *TrendingHandler) all(ctx context.Context, args map[string]interface{}) (string, error) {
	window, params, err := windowArgs(args)
	if err != nil {
		return "", err
	}

	page, err := h.client.TrendingAll(ctx, window, params)
	if err != nil {
		return "", err
	}
	return domain.FormatMediaItems(page.Results, pageTitle("Trending items for the "+window, page)), nil
}

func (h *TrendingHandler) movies(ctx context.Context, args map[string]interface{}) (string, error) {
	window, params, err := windowArgs(args)
	if err != nil {
		return "", err
	}

	page, err := h.client.TrendingMovies(ctx, window, params)
	if err != nil {
		return "", err
	}
	return domain.FormatMovies(page.Results, pageTitle("Trending Movies for the "+window, page)), nil
}

func (h *TrendingHandler) tv(ctx context.Context, args map[string]interface{}) (string, error) {
	window, params, err := windowArgs(args)
	if err != nil {
		return "", err
	}

	page, err := h.client.TrendingTV(ctx, window, params)
	if err != nil {
		return "", err
	}
	return domain.FormatTVShows(page.Results, pageTitle("Trending TV Shows for the "+window, page)), nil
}

func (h *TrendingHandler) people(ctx context.Context, args map[string]interface{}) (string, error) {
	window, params, err := windowArgs(args)
	if err != nil {
		return "", err
	}

	page, err := h.client.TrendingPeople(ctx, window, params)
	if err != nil {
		return "", err
	}
	return domain.FormatPeople(page.Results, pageTitle("Trending People for the "+window, page)), nil
}
