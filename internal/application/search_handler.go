package application

import (
	"context"
	"fmt"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

// Tool name constants for search operations
const (
	ToolSearchMovie      = "mcp_tmdb_search_movie"
	ToolSearchTV         = "mcp_tmdb_search_tv"
	ToolSearchMulti      = "mcp_tmdb_search_multi"
	ToolSearchCollection = "mcp_tmdb_search_collection"
	ToolSearchCompany    = "mcp_tmdb_search_company"
	ToolSearchKeyword    = "mcp_tmdb_search_keyword"
	ToolFindByID         = "mcp_tmdb_find_by_id"
)

var externalSources = []string{
	"imdb_id", "freebase_mid", "freebase_id", "tvrage_id",
	"facebook_id", "instagram_id", "twitter_id", "wikidata_id",
}

// SearchHandler implements ToolHandler for free-text search and external ID lookup.
type SearchHandler struct {
	client *infrastructure.TMDBClient
	tools  *toolTable
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(client *infrastructure.TMDBClient) *SearchHandler {
	h := &SearchHandler{client: client}

	h.tools = newToolTable(
		tool(ToolSearchMovie, "Search for movies by title", objectSchema(props{
			"query":                stringProp("Search query"),
			"language":             languageProp(),
			"page":                 pageProp(),
			"include_adult":        booleanProp("Include adult movies"),
			"region":               regionProp(),
			"year":                 integerProp("Release year"),
			"primary_release_year": integerProp("Primary release year"),
		}, "query"), h.searchMovie),
		tool(ToolSearchTV, "Search for TV shows by title", objectSchema(props{
			"query":               stringProp("Search query"),
			"language":            languageProp(),
			"page":                pageProp(),
			"include_adult":       booleanProp("Include adult TV shows"),
			"first_air_date_year": integerProp("First air date year"),
		}, "query"), h.searchTV),
		tool(ToolSearchMulti, "Search for movies, TV shows, and people in a single request", searchSchema(), h.searchMulti),
		tool(ToolSearchCollection, "Search for collections by name", searchSchema(), h.searchCollection),
		tool(ToolSearchCompany, "Search for companies by name", objectSchema(props{
			"query": stringProp("Search query"),
			"page":  pageProp(),
		}, "query"), h.searchCompany),
		tool(ToolSearchKeyword, "Search for keywords by name", objectSchema(props{
			"query": stringProp("Search query"),
			"page":  pageProp(),
		}, "query"), h.searchKeyword),
		tool(ToolFindByID, "Find movies, TV shows and people by an external ID such as an IMDb ID", objectSchema(props{
			"external_id":     stringProp("External ID (e.g., 'tt0111161')"),
			"external_source": enumProp("External source", externalSources...),
			"language":        languageProp(),
		}, "external_id", "external_source"), h.findByID),
	)

	return h
}

// ToolName returns the identifier for this handler.
func (h *SearchHandler) ToolName() string {
	return "search"
}

// ListTools returns available tools for search operations.
func (h *SearchHandler) ListTools() []domain.ToolDefinition {
	return h.tools.definitions()
}

// Handle processes a tool request for search operations.
func (h *SearchHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	return h.tools.handle(ctx, req)
}

// searchTitle renders `Found {n} {noun} for "{query}" (Page p of t)`.
func searchTitle[T any](noun, query string, page *domain.Page[T]) string {
	return pageTitle(fmt.Sprintf("Found %d %s for \"%s\"", len(page.Results), noun, query), page)
}

func (h *SearchHandler) searchMovie(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchMovies(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatMovies(page.Results, searchTitle("movies", query, page)), nil
}

func (h *SearchHandler) searchTV(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchTV(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatTVShows(page.Results, searchTitle("TV shows", query, page)), nil
}

func (h *SearchHandler) searchMulti(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchMulti(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	heading := fmt.Sprintf("Search results for \"%s\"", query)
	return domain.FormatMediaSections(heading, domain.SplitMedia(page.Results)), nil
}

func (h *SearchHandler) searchCollection(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchCollections(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatCollections(page.Results, searchTitle("collections", query, page)), nil
}

func (h *SearchHandler) searchCompany(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchCompanies(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatCompanies(page.Results, searchTitle("companies", query, page)), nil
}

func (h *SearchHandler) searchKeyword(ctx context.Context, args map[string]interface{}) (string, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return "", err
	}

	page, err := h.client.SearchKeywords(ctx, BuildParams(args, nil))
	if err != nil {
		return "", err
	}
	return domain.FormatKeywords(page.Results, searchTitle("keywords", query, page)), nil
}

func (h *SearchHandler) findByID(ctx context.Context, args map[string]interface{}) (string, error) {
	externalID, err := getStringParam(args, "external_id", true)
	if err != nil {
		return "", err
	}
	externalSource, err := getStringParam(args, "external_source", true)
	if err != nil {
		return "", err
	}

	params := BuildParams(without(args, "external_id", "external_source"), nil)
	results, err := h.client.FindByID(ctx, externalID, externalSource, params)
	if err != nil {
		return "", err
	}

	heading := fmt.Sprintf("Find results for %s ID \"%s\"", externalSource, externalID)
	return domain.FormatMediaSections(heading, results.Media()), nil
}
