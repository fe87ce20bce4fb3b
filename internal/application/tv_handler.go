package application

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for TV operations
const (
	ToolDiscoverTV  = "mcp_tmdb_search_tv_serials"
	ToolAiringToday = "mcp_tmdb_get_airing_today"
	ToolOnTheAir    = "mcp_tmdb_get_on_the_air"
	ToolPopularTV   = "mcp_tmdb_get_popular_tv"
	ToolTopRatedTV  = "mcp_tmdb_get_top_rated_tv"
)

// TVHandler implements ToolHandler for TV discovery and list tools.
type TVHandler struct {
	client *infrastructure.TMDBClient
	tools  *toolTable
}

// NewTVHandler creates a new TVHandler instance.
func NewTVHandler(client *infrastructure.TMDBClient) *TVHandler {
	h := &TVHandler{client: client}

	withTimezone := props{"timezone": stringProp("Timezone")}

	h.tools = newToolTable(
		tool(ToolDiscoverTV, "Discover TV shows using various filters and criteria", tvDiscoverySchema(), h.discover),
		tool(ToolAiringToday, "Get TV shows airing today", listSchema(withTimezone),
			h.list("TV Shows Airing Today", h.client.AiringTodayTV)),
		tool(ToolOnTheAir, "Get TV shows currently on the air", listSchema(withTimezone),
			h.list("TV Shows On The Air", h.client.OnTheAirTV)),
		tool(ToolPopularTV, "Get popular TV shows", listSchema(nil),
			h.list("Popular TV Shows", h.client.PopularTV)),
		tool(ToolTopRatedTV, "Get top rated TV shows", listSchema(nil),
			h.list("Top Rated TV Shows", h.client.TopRatedTV)),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *TVHandler) ToolName() string {
	return "tv"
}

// ListTools returns available tools for TV operations.
func (h *TVHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for TV operations.
func (h *TVHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

func (h *TVHandler) discover(ctx context.Context, args map[string]interface{}) (string, error) {
	params := BuildParams(args, GetParameterMapping("tvDiscovery"))
	page, err := h.client.DiscoverTV(ctx, params)
	if err != nil {
		return "", err
	}
	title := pageTitle(fmt.Sprintf("Found %d TV shows", len(page.Results)), page)
	return domain.FormatTVShows(page.Results, title), nil
}

type tvListFunc func(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error)

func (h *TVHandler) list(title string, fetch tvListFunc) toolFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		page, err := fetch(ctx, BuildParams(args, nil))
		if err != nil {
			return "", err
		}
		return domain.FormatTVShows(page.Results, pageTitle(title, page)), nil
	}
}

func tvDiscoverySchema() *jsonschema.Schema {
	return objectSchema(props{
		"language":                      languageProp(),
		"sort_by":                       stringProp("Sort results by (e.g., 'popularity.desc', 'first_air_date.desc', 'vote_average.desc')"),
		"air_date_gte":                  stringProp("Air date greater than or equal to (YYYY-MM-DD)"),
		"air_date_lte":                  stringProp("Air date less than or equal to (YYYY-MM-DD)"),
		"first_air_date_gte":            stringProp("First air date greater than or equal to (YYYY-MM-DD)"),
		"first_air_date_lte":            stringProp("First air date less than or equal to (YYYY-MM-DD)"),
		"first_air_date_year":           integerProp("First air date year"),
		"page":                          pageProp(),
		"timezone":                      stringProp("Timezone for air dates"),
		"vote_average_gte":              numberProp("Vote average greater than or equal to"),
		"vote_average_lte":              numberProp("Vote average less than or equal to"),
		"vote_count_gte":                integerProp("Vote count greater than or equal to"),
		"vote_count_lte":                integerProp("Vote count less than or equal to"),
		"with_genres":                   stringProp("Comma-separated list of genre IDs"),
		"without_genres":                stringProp("Comma-separated list of genre IDs to exclude"),
		"with_networks":                 stringProp("Comma-separated list of network IDs"),
		"with_runtime_gte":              integerProp("Runtime greater than or equal to (minutes)"),
		"with_runtime_lte":              integerProp("Runtime less than or equal to (minutes)"),
		"include_null_first_air_dates":  booleanProp("Include TV shows with null first air dates"),
		"with_original_language":        stringProp("Original language ISO 639-1 code"),
		"with_keywords":                 stringProp("Comma-separated list of keyword IDs"),
		"without_keywords":              stringProp("Comma-separated list of keyword IDs to exclude"),
		"screened_theatrically":         booleanProp("Filter shows that were screened theatrically"),
		"with_companies":                stringProp("Comma-separated list of production company IDs"),
		"without_companies":             stringProp("Comma-separated list of production company IDs to exclude"),
		"with_watch_providers":          stringProp("Comma-separated list of watch provider IDs"),
		"watch_region":                  stringProp("Region for watch providers"),
		"with_watch_monetization_types": stringProp("Monetization types (flatrate, free, ads, rent, buy)"),
		"with_status":                   stringProp("TV show status filter"),
		"with_type":                     stringProp("TV show type filter"),
	})
}
