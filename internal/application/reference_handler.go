package application

import (
	"context"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for reference data operations
const (
	ToolMovieGenres          = "mcp_tmdb_get_movie_genres"
	ToolTVGenres             = "mcp_tmdb_get_tv_genres"
	ToolWatchProviderRegions = "mcp_tmdb_get_watch_provider_regions"
	ToolMovieWatchProviders  = "mcp_tmdb_get_watch_provider_movies"
	ToolTVWatchProviders     = "mcp_tmdb_get_watch_provider_tv"
	ToolMovieChanges         = "mcp_tmdb_get_movie_changes"
	ToolTVChanges            = "mcp_tmdb_get_tv_changes"
	ToolPersonChanges        = "mcp_tmdb_get_person_changes"
)

// ReferenceHandler implements ToolHandler for genre lists, watch providers
// and change feeds.
type ReferenceHandler struct {
	client *infrastructure.TMDBClient
	tools  *toolTable
}

// NewReferenceHandler creates a new ReferenceHandler instance.
func NewReferenceHandler(client *infrastructure.TMDBClient) *ReferenceHandler {
	h := &ReferenceHandler{client: client}

	languageOnly := func() props { return props{"language": languageProp()} }
	providerSchema := func() props {
		return props{"language": languageProp(), "watch_region": stringProp("Watch region")}
	}

	h.tools = newToolTable(
		tool(ToolMovieGenres, "Get movie genres", objectSchema(languageOnly()),
			h.genres("Movie Genres", h.client.MovieGenres)),
		tool(ToolTVGenres, "Get TV genres", objectSchema(languageOnly()),
			h.genres("TV Genres", h.client.TVGenres)),
		tool(ToolWatchProviderRegions, "Get available watch provider regions", objectSchema(languageOnly()),
			h.regions),
		tool(ToolMovieWatchProviders, "Get movie watch providers", objectSchema(providerSchema()),
			h.providers("Movie Watch Providers", h.client.MovieWatchProviders)),
		tool(ToolTVWatchProviders, "Get TV watch providers", objectSchema(providerSchema()),
			h.providers("TV Watch Providers", h.client.TVWatchProviders)),
		tool(ToolMovieChanges, "Get movie changes", changesSchema(),
			h.changes("Movie Changes", h.client.MovieChanges)),
		tool(ToolTVChanges, "Get TV changes", changesSchema(),
			h.changes("TV Changes", h.client.TVChanges)),
		tool(ToolPersonChanges, "Get person changes", changesSchema(),
			h.changes("Person Changes", h.client.PersonChanges)),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *ReferenceHandler) ToolName() string {
	return "reference"
}

// ListTools returns available tools for reference data operations.
func (h *ReferenceHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for reference data operations.
func (h *ReferenceHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

func (h *ReferenceHandler) genres(title string, fetch func(context.Context, map[string]string) ([]domain.Genre, error)) toolFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		genres, err := fetch(ctx, BuildParams(args, nil))
		if err != nil {
			return "", err
		}
		return domain.FormatGenres(genres, title), nil
	}
}

func (h *ReferenceHandler) regions(ctx context.Context, args map[string]interface{}) (string, error) {
	regions, err := h.client.WatchProviderRegions(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatWatchRegions(regions, "Available Watch Provider Regions"), nil
}

func (h *ReferenceHandler) providers(title string, fetch func(context.Context, map[string]string) ([]domain.WatchProvider, error)) toolFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		providers, err := fetch(ctx, BuildParams(args, nil))
		if err != nil {
			return "", err
		}
		return domain.FormatWatchProviders(providers, title), nil
	}
}

func (h *ReferenceHandler) changes(title string, fetch func(context.Context, map[string]string) (*domain.Page[domain.ChangeEntry], error)) toolFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		page, err := fetch(ctx, BuildParams(args, nil))
		if err != nil {
			return "", err
		}
		return domain.FormatChanges(page.Results, pageTitle(title, page)), nil
	}
}
