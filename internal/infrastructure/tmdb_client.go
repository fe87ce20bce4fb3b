package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tmdb-mcp-server/internal/domain"
)

// maxErrorBody bounds how much of a failed response is read for its status_message.
const maxErrorBody = 64 * 1024

// TMDBClient handles TMDB v3 API interactions.
// The httpClient is expected to inject the API key (see domain.NewAPIKeyClient).
type TMDBClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *domain.StructuredLogger
}

// NewTMDBClient creates a new TMDB API client.
// The baseURL is the API root including the version (e.g., "https://api.themoviedb.org/3").
func NewTMDBClient(baseURL string, httpClient *http.Client, logger *domain.StructuredLogger) *TMDBClient {
	return &TMDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured API root.
func (c *TMDBClient) BaseURL() string {
	return c.baseURL
}

// Fetch issues a GET for endpoint with the given query parameters and
// decodes the JSON body into out.
func (c *TMDBClient) Fetch(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}

	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &domain.TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.LogDebug("tmdb request", map[string]interface{}{
		"endpoint": endpoint,
		"params":   params,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Endpoint: endpoint, Err: stripURL(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewRemoteServiceError(resp.StatusCode, statusText(resp), statusMessage(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Endpoint: endpoint, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.DecodeError{Endpoint: endpoint, Err: err}
	}

	return nil
}

// stripURL drops the *url.Error wrapper, whose message repeats the request
// URL and with it the api_key query parameter.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// statusText returns the reason phrase of the response ("Not Found").
func statusText(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

// statusMessage extracts TMDB's {"status_message": "..."} from an error body.
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}

func fetchPage[T any](ctx context.Context, c *TMDBClient, endpoint string, params map[string]string) (*domain.Page[T], error) {
	var page domain.Page[T]
	if err := c.Fetch(ctx, endpoint, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Movies

// MovieDetails fetches a movie with its credits and reviews in one round trip.
func (c *TMDBClient) MovieDetails(ctx context.Context, movieID string) (*domain.MovieDetails, error) {
	var details domain.MovieDetails
	endpoint := "/movie/" + url.PathEscape(movieID)
	if err := c.Fetch(ctx, endpoint, map[string]string{"append_to_response": "credits,reviews"}, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *TMDBClient) DiscoverMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/discover/movie", params)
}

func (c *TMDBClient) MovieRecommendations(ctx context.Context, movieID string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/movie/"+url.PathEscape(movieID)+"/recommendations", nil)
}

func (c *TMDBClient) SearchMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/search/movie", params)
}

func (c *TMDBClient) NowPlayingMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/movie/now_playing", params)
}

func (c *TMDBClient) PopularMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/movie/popular", params)
}

func (c *TMDBClient) TopRatedMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/movie/top_rated", params)
}

func (c *TMDBClient) UpcomingMovies(ctx context.Context, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, "/movie/upcoming", params)
}

// TV

func (c *TMDBClient) DiscoverTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/discover/tv", params)
}

func (c *TMDBClient) SearchTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/search/tv", params)
}

func (c *TMDBClient) AiringTodayTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/tv/airing_today", params)
}

func (c *TMDBClient) OnTheAirTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/tv/on_the_air", params)
}

func (c *TMDBClient) PopularTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/tv/popular", params)
}

func (c *TMDBClient) TopRatedTV(ctx context.Context, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, "/tv/top_rated", params)
}

// People

func (c *TMDBClient) SearchPeople(ctx context.Context, params map[string]string) (*domain.Page[domain.Person], error) {
	return fetchPage[domain.Person](ctx, c, "/search/person", params)
}

func (c *TMDBClient) PopularPeople(ctx context.Context, params map[string]string) (*domain.Page[domain.Person], error) {
	return fetchPage[domain.Person](ctx, c, "/person/popular", params)
}

// Search

// SearchMulti searches movies, TV shows and people at once. Each result is
// tagged with its kind from the media_type field.
func (c *TMDBClient) SearchMulti(ctx context.Context, params map[string]string) (*domain.Page[domain.MediaItem], error) {
	return fetchPage[domain.MediaItem](ctx, c, "/search/multi", params)
}

func (c *TMDBClient) SearchCollections(ctx context.Context, params map[string]string) (*domain.Page[domain.Collection], error) {
	return fetchPage[domain.Collection](ctx, c, "/search/collection", params)
}

func (c *TMDBClient) SearchCompanies(ctx context.Context, params map[string]string) (*domain.Page[domain.Company], error) {
	return fetchPage[domain.Company](ctx, c, "/search/company", params)
}

func (c *TMDBClient) SearchKeywords(ctx context.Context, params map[string]string) (*domain.Page[domain.Keyword], error) {
	return fetchPage[domain.Keyword](ctx, c, "/search/keyword", params)
}

// Trending

func trendingEndpoint(kind, timeWindow string) string {
	return "/trending/" + kind + "/" + url.PathEscape(timeWindow)
}

// TrendingAll returns mixed movies, TV shows and people tagged by media_type.
func (c *TMDBClient) TrendingAll(ctx context.Context, timeWindow string, params map[string]string) (*domain.Page[domain.MediaItem], error) {
	return fetchPage[domain.MediaItem](ctx, c, trendingEndpoint("all", timeWindow), params)
}

func (c *TMDBClient) TrendingMovies(ctx context.Context, timeWindow string, params map[string]string) (*domain.Page[domain.Movie], error) {
	return fetchPage[domain.Movie](ctx, c, trendingEndpoint("movie", timeWindow), params)
}

func (c *TMDBClient) TrendingTV(ctx context.Context, timeWindow string, params map[string]string) (*domain.Page[domain.TVShow], error) {
	return fetchPage[domain.TVShow](ctx, c, trendingEndpoint("tv", timeWindow), params)
}

func (c *TMDBClient) TrendingPeople(ctx context.Context, timeWindow string, params map[string]string) (*domain.Page[domain.Person], error) {
	return fetchPage[domain.Person](ctx, c, trendingEndpoint("person", timeWindow), params)
}

// Genres

func (c *TMDBClient) MovieGenres(ctx context.Context, params map[string]string) ([]domain.Genre, error) {
	return c.genres(ctx, "/genre/movie/list", params)
}

func (c *TMDBClient) TVGenres(ctx context.Context, params map[string]string) ([]domain.Genre, error) {
	return c.genres(ctx, "/genre/tv/list", params)
}

func (c *TMDBClient) genres(ctx context.Context, endpoint string, params map[string]string) ([]domain.Genre, error) {
	var list domain.GenreList
	if err := c.Fetch(ctx, endpoint, params, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}

// Watch providers

func (c *TMDBClient) WatchProviderRegions(ctx context.Context, params map[string]string) ([]domain.WatchRegion, error) {
	var list domain.WatchRegionList
	if err := c.Fetch(ctx, "/watch/providers/regions", params, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *TMDBClient) MovieWatchProviders(ctx context.Context, params map[string]string) ([]domain.WatchProvider, error) {
	return c.watchProviders(ctx, "/watch/providers/movie", params)
}

func (c *TMDBClient) TVWatchProviders(ctx context.Context, params map[string]string) ([]domain.WatchProvider, error) {
	return c.watchProviders(ctx, "/watch/providers/tv", params)
}

func (c *TMDBClient) watchProviders(ctx context.Context, endpoint string, params map[string]string) ([]domain.WatchProvider, error) {
	var list domain.WatchProviderList
	if err := c.Fetch(ctx, endpoint, params, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// Find

// FindByID looks up TMDB records by an external identifier such as an IMDb ID.
func (c *TMDBClient) FindByID(ctx context.Context, externalID, externalSource string, params map[string]string) (*domain.FindResults, error) {
	query := make(map[string]string, len(params)+1)
	for key, value := range params {
		query[key] = value
	}
	query["external_source"] = externalSource

	var results domain.FindResults
	if err := c.Fetch(ctx, "/find/"+url.PathEscape(externalID), query, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Changes

func (c *TMDBClient) MovieChanges(ctx context.Context, params map[string]string) (*domain.Page[domain.ChangeEntry], error) {
	return fetchPage[domain.ChangeEntry](ctx, c, "/movie/changes", params)
}

func (c *TMDBClient) TVChanges(ctx context.Context, params map[string]string) (*domain.Page[domain.ChangeEntry], error) {
	return fetchPage[domain.ChangeEntry](ctx, c, "/tv/changes", params)
}

func (c *TMDBClient) PersonChanges(ctx context.Context, params map[string]string) (*domain.Page[domain.ChangeEntry], error) {
	return fetchPage[domain.ChangeEntry](ctx, c, "/person/changes", params)
}
