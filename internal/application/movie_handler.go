package application

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for movie operations
const (
	ToolDiscoverMovies   = "mcp_tmdb_search_movies"
	ToolRecommendations  = "mcp_tmdb_get_recommendations"
	ToolMovieDetails     = "mcp_tmdb_get_movie_details"
	ToolNowPlayingMovies = "mcp_tmdb_get_now_playing"
	ToolPopularMovies    = "mcp_tmdb_get_popular_movies"
	ToolTopRatedMovies   = "mcp_tmdb_get_top_rated_movies"
	ToolUpcomingMovies   = "mcp_tmdb_get_upcoming_movies"
)

const recommendationsShown = 5

// MovieHandler implements ToolHandler for movie discovery, detail and list tools.
type MovieHandler struct {
	client       *infrastructure.TMDBClient
	imageBaseURL string
	tools        *toolTable
}

// NewMovieHandler creates a new MovieHandler instance.
func NewMovieHandler(client *infrastructure.TMDBClient, imageBaseURL string) *MovieHandler {
	h := &MovieHandler{
		client:       client,
		imageBaseURL: imageBaseURL,
	}

	listSchemaWithRegion := func() *jsonschema.Schema { return listSchema(props{"region": regionProp()}) }

	h.tools = newToolTable(
		tool(ToolDiscoverMovies, "Discover movies using various filters and criteria", movieDiscoverySchema(), h.discover),
		tool(ToolRecommendations, "Get movie recommendations based on a movie ID",
			objectSchema(props{"movieId": idProp("TMDB movie ID to get recommendations for")}, "movieId"),
			h.recommendations),
		tool(ToolMovieDetails, "Get detailed information about a movie, including cast, director and reviews",
			objectSchema(props{"movieId": idProp("TMDB movie ID")}, "movieId"),
			h.details),
		tool(ToolNowPlayingMovies, "Get movies currently in theatres", listSchemaWithRegion(),
			h.list("Now Playing Movies", h.client.NowPlayingMovies)),
		tool(ToolPopularMovies, "Get popular movies", listSchemaWithRegion(),
			h.list("Popular Movies", h.client.PopularMovies)),
		tool(ToolTopRatedMovies, "Get top rated movies", listSchemaWithRegion(),
			h.list("Top Rated Movies", h.client.TopRatedMovies)),
		tool(ToolUpcomingMovies, "Get upcoming movies", listSchemaWithRegion(),
			h.list("Upcoming Movies", h.client.UpcomingMovies)),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *MovieHandler) ToolName() string {
	return "movies"
}

// ListTools returns available tools for movie operations.
func (h *MovieHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for movie operations.
func (h *MovieHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

func (h *MovieHandler) discover(ctx context.Context, args map[string]interface{}) (string, error) {
	params := BuildParams(args, GetParameterMapping("movieDiscovery"))
	page, err := h.client.DiscoverMovies(ctx, params)
	if err != nil {
		return "", err
	}
	title := pageTitle(fmt.Sprintf("Found %d movies", len(page.Results)), page)
	return domain.FormatMovies(page.Results, title), nil
}

func (h *MovieHandler) recommendations(ctx context.Context, args map[string]interface{}) (string, error) {
	movieID, err := getIDParam(args, "movieId")
	if err != nil {
		return "", err
	}

	page, err := h.client.MovieRecommendations(ctx, movieID)
	if err != nil {
		return "", err
	}
	return domain.FormatMovies(firstN(page.Results, recommendationsShown), fmt.Sprintf("Top %d recommendations", recommendationsShown)), nil
}

func (h *MovieHandler) details(ctx context.Context, args map[string]interface{}) (string, error) {
	movieID, err := getIDParam(args, "movieId")
	if err != nil {
		return "", err
	}

	details, err := h.client.MovieDetails(ctx, movieID)
	if err != nil {
		return "", err
	}
	return domain.FormatMovieDetails(details, h.imageBaseURL), nil
}

type movieListFunc func(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error)

func (h *MovieHandler) list(title string, fetch movieListFunc) toolFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		page, err := fetch(ctx, BuildParams(args, nil))
		if err != nil {
			return "", err
		}
		return domain.FormatMovies(page.Results, pageTitle(title, page)), nil
	}
}

func movieDiscoverySchema() *jsonschema.Schema {
	return objectSchema(props{
		"language":                      languageProp(),
		"region":                        regionProp(),
		"sort_by":                       stringProp("Sort results by (e.g., 'popularity.desc', 'release_date.desc', 'vote_average.desc')"),
		"certification_country":         stringProp("Country for certification filtering"),
		"certification":                 stringProp("Certification rating (e.g., 'R', 'PG-13')"),
		"certification_gte":             stringProp("Certification greater than or equal to"),
		"certification_lte":             stringProp("Certification less than or equal to"),
		"include_adult":                 booleanProp("Include adult movies"),
		"include_video":                 booleanProp("Include video content"),
		"page":                          pageProp(),
		"primary_release_year":          integerProp("Primary release year"),
		"primary_release_date_gte":      stringProp("Primary release date greater than or equal to (YYYY-MM-DD)"),
		"primary_release_date_lte":      stringProp("Primary release date less than or equal to (YYYY-MM-DD)"),
		"release_date_gte":              stringProp("Release date greater than or equal to (YYYY-MM-DD)"),
		"release_date_lte":              stringProp("Release date less than or equal to (YYYY-MM-DD)"),
		"with_release_type":             stringProp("Release type filter"),
		"year":                          integerProp("Release year"),
		"vote_count_gte":                integerProp("Vote count greater than or equal to"),
		"vote_count_lte":                integerProp("Vote count less than or equal to"),
		"vote_average_gte":              numberProp("Vote average greater than or equal to"),
		"vote_average_lte":              numberProp("Vote average less than or equal to"),
		"with_cast":                     stringProp("Comma-separated list of cast member IDs"),
		"with_crew":                     stringProp("Comma-separated list of crew member IDs"),
		"with_people":                   stringProp("Comma-separated list of people IDs (cast or crew)"),
		"with_companies":                stringProp("Comma-separated list of production company IDs"),
		"without_companies":             stringProp("Comma-separated list of production company IDs to exclude"),
		"with_genres":                   stringProp("Comma-separated list of genre IDs"),
		"without_genres":                stringProp("Comma-separated list of genre IDs to exclude"),
		"with_keywords":                 stringProp("Comma-separated list of keyword IDs"),
		"without_keywords":              stringProp("Comma-separated list of keyword IDs to exclude"),
		"with_runtime_gte":              integerProp("Runtime greater than or equal to (minutes)"),
		"with_runtime_lte":              integerProp("Runtime less than or equal to (minutes)"),
		"with_original_language":        stringProp("Original language ISO 639-1 code"),
		"with_watch_providers":          stringProp("Comma-separated list of watch provider IDs"),
		"watch_region":                  stringProp("Region for watch providers"),
		"with_watch_monetization_types": stringProp("Monetization types (flatrate, free, ads, rent, buy)"),
	})
}
