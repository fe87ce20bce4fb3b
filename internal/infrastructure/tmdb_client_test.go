package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"tmdb-mcp-server/internal/domain"
)

const testAPIKey = "test-api-key-123"

// recordedRequest captures what the fake TMDB server saw.
type recordedRequest struct {
	path  string
	query url.Values
}

// requestLog collects requests from the server goroutine.
type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.reqs...)
}

// mockTMDBServer creates a test HTTP server that simulates TMDB v3 responses.
func mockTMDBServer(t *testing.T, seen *requestLog) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.add(r)
		}

		if r.URL.Query().Get("api_key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/search/movie":
			w.Write([]byte(`{"page":1,"total_pages":1,"total_results":1,"results":[
				{"id":438631,"title":"Dune","release_date":"2021-09-15","vote_average":7.8,"overview":"Paul Atreides..."}]}`))

		case "/movie/438631":
			w.Write([]byte(`{"id":438631,"title":"Dune","release_date":"2021-09-15","runtime":155,
				"credits":{"cast":[{"name":"Timothée Chalamet","character":"Paul Atreides"}],"crew":[{"name":"Denis Villeneuve","job":"Director"}]},
				"reviews":{"page":1,"total_pages":1,"results":[{"author":"critic","content":"Great.","author_details":{"rating":9}}]}}`))

		case "/movie/0":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`))

		case "/movie/popular":
			w.Write([]byte(`{"page":1,"results":[`))

		case "/search/multi", "/trending/all/week":
			w.Write([]byte(`{"page":1,"total_pages":3,"results":[
				{"media_type":"movie","id":438631,"title":"Dune"},
				{"media_type":"tv","id":1399,"name":"Game of Thrones"},
				{"media_type":"person","id":1190668,"name":"Timothée Chalamet"}]}`))

		case "/find/tt1160419":
			w.Write([]byte(`{"movie_results":[{"id":438631,"title":"Dune"}],"tv_results":[],"person_results":[]}`))

		case "/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))

		case "/watch/providers/regions":
			w.Write([]byte(`{"results":[{"iso_3166_1":"US","english_name":"United States"}]}`))

		case "/watch/providers/movie":
			w.Write([]byte(`{"results":[{"provider_id":8,"provider_name":"Netflix","display_priorities":{"US":1}}]}`))

		case "/movie/changes":
			w.Write([]byte(`{"page":1,"total_pages":1,"results":[{"id":1,"adult":false},{"id":2,"adult":false}]}`))

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_message":"unexpected path"}`))
		}
	}))
}

func newTestClient(t *testing.T, baseURL string) *TMDBClient {
	t.Helper()

	httpClient, err := domain.NewAPIKeyClient(testAPIKey, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to create HTTP client: %v", err)
	}
	return NewTMDBClient(baseURL+"/", httpClient, domain.NewNopLogger())
}

func TestTMDBClient_SearchMovies(t *testing.T) {
	var log requestLog
	server := mockTMDBServer(t, &log)
	defer server.Close()

	client := newTestClient(t, server.URL)
	if client.BaseURL() != server.URL {
		t.Errorf("Expected trailing slash to be trimmed, got %s", client.BaseURL())
	}

	page, err := client.SearchMovies(context.Background(), map[string]string{"query": "Dune", "page": "1"})
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}

	if len(page.Results) != 1 || page.Results[0].ID != 438631 {
		t.Fatalf("Unexpected results: %+v", page.Results)
	}
	if page.Results[0].VoteAverage != 7.8 {
		t.Errorf("Expected vote average 7.8, got %v", page.Results[0].VoteAverage)
	}

	seen := log.all()
	if len(seen) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(seen))
	}
	if seen[0].path != "/search/movie" {
		t.Errorf("Unexpected path %s", seen[0].path)
	}
	if seen[0].query.Get("query") != "Dune" || seen[0].query.Get("page") != "1" {
		t.Errorf("Unexpected query %v", seen[0].query)
	}
}

func TestTMDBClient_MovieDetails(t *testing.T) {
	var log requestLog
	server := mockTMDBServer(t, &log)
	defer server.Close()

	details, err := newTestClient(t, server.URL).MovieDetails(context.Background(), "438631")
	if err != nil {
		t.Fatalf("MovieDetails failed: %v", err)
	}

	seen := log.all()
	if seen[0].query.Get("append_to_response") != "credits,reviews" {
		t.Errorf("Expected credits and reviews to be appended, got %v", seen[0].query)
	}
	if details.Title != "Dune" || details.Runtime != 155 {
		t.Errorf("Unexpected details: %+v", details)
	}
	if details.Director() != "Denis Villeneuve" {
		t.Errorf("Expected director, got %q", details.Director())
	}
	if details.Reviews == nil || len(details.Reviews.Results) != 1 {
		t.Fatalf("Expected one review, got %+v", details.Reviews)
	}
	if rating := details.Reviews.Results[0].AuthorDetails.Rating; rating == nil || *rating != 9 {
		t.Errorf("Expected review rating 9, got %v", rating)
	}
}

func TestTMDBClient_NotFound(t *testing.T) {
	server := mockTMDBServer(t, nil)
	defer server.Close()

	_, err := newTestClient(t, server.URL).MovieDetails(context.Background(), "0")

	var remoteErr *domain.RemoteServiceError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("Expected *domain.RemoteServiceError, got %T: %v", err, err)
	}
	if remoteErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", remoteErr.StatusCode)
	}
	if remoteErr.StatusText != "Not Found" {
		t.Errorf("Expected status text 'Not Found', got %q", remoteErr.StatusText)
	}
	if remoteErr.Message != "The resource you requested could not be found." {
		t.Errorf("Expected TMDB status_message, got %q", remoteErr.Message)
	}
}

func TestTMDBClient_Unauthorized(t *testing.T) {
	server := mockTMDBServer(t, nil)
	defer server.Close()

	client := NewTMDBClient(server.URL, http.DefaultClient, domain.NewNopLogger())
	_, err := client.PopularMovies(context.Background(), nil)

	var remoteErr *domain.RemoteServiceError
	if !errors.As(err, &remoteErr) || remoteErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 RemoteServiceError, got %v", err)
	}
}

func TestTMDBClient_MalformedBody(t *testing.T) {
	server := mockTMDBServer(t, nil)
	defer server.Close()

	_, err := newTestClient(t, server.URL).PopularMovies(context.Background(), nil)

	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *domain.DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Endpoint != "/movie/popular" {
		t.Errorf("Expected endpoint /movie/popular, got %s", decodeErr.Endpoint)
	}
}

func TestTMDBClient_TransportErrorHidesKey(t *testing.T) {
	server := mockTMDBServer(t, nil)
	baseURL := server.URL
	server.Close()

	_, err := newTestClient(t, baseURL).SearchMovies(context.Background(), map[string]string{"query": "Dune"})

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *domain.TransportError, got %T: %v", err, err)
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Errorf("Error message leaks the API key: %s", err.Error())
	}
}

func TestTMDBClient_SearchMulti(t *testing.T) {
	server := mockTMDBServer(t, nil)
	defer server.Close()

	page, err := newTestClient(t, server.URL).SearchMulti(context.Background(), map[string]string{"query": "Dune"})
	if err != nil {
		t.Fatalf("SearchMulti failed: %v", err)
	}

	kinds := []domain.MediaKind{domain.MediaMovie, domain.MediaTV, domain.MediaPerson}
	if len(page.Results) != len(kinds) {
		t.Fatalf("Expected %d items, got %d", len(kinds), len(page.Results))
	}
	for i, kind := range kinds {
		if page.Results[i].Kind != kind {
			t.Errorf("Item %d: expected kind %s, got %s", i, kind, page.Results[i].Kind)
		}
	}
	if !page.HasNext() {
		t.Error("Expected more pages")
	}
}

func TestTMDBClient_TrendingAll(t *testing.T) {
	var log requestLog
	server := mockTMDBServer(t, &log)
	defer server.Close()

	page, err := newTestClient(t, server.URL).TrendingAll(context.Background(), "week", map[string]string{"page": "2"})
	if err != nil {
		t.Fatalf("TrendingAll failed: %v", err)
	}
	if len(page.Results) != 3 {
		t.Errorf("Expected 3 items, got %d", len(page.Results))
	}

	seen := log.all()
	if seen[0].query.Get("page") != "2" || seen[0].query.Has("timeWindow") {
		t.Errorf("Unexpected query %v", seen[0].query)
	}
}

func TestTMDBClient_FindByID(t *testing.T) {
	var log requestLog
	server := mockTMDBServer(t, &log)
	defer server.Close()

	params := map[string]string{"language": "en-US"}
	results, err := newTestClient(t, server.URL).FindByID(context.Background(), "tt1160419", "imdb_id", params)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	seen := log.all()
	if seen[0].query.Get("external_source") != "imdb_id" || seen[0].query.Get("language") != "en-US" {
		t.Errorf("Unexpected query %v", seen[0].query)
	}
	if _, ok := params["external_source"]; ok {
		t.Error("Caller's params must not be modified")
	}
	if len(results.MovieResults) != 1 || results.MovieResults[0].Title != "Dune" {
		t.Errorf("Unexpected results: %+v", results)
	}
}

func TestTMDBClient_ReferenceData(t *testing.T) {
	server := mockTMDBServer(t, nil)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	genres, err := client.MovieGenres(ctx, nil)
	if err != nil || len(genres) != 2 || genres[1].Name != "Science Fiction" {
		t.Errorf("Unexpected genres %+v (err %v)", genres, err)
	}

	regions, err := client.WatchProviderRegions(ctx, nil)
	if err != nil || len(regions) != 1 || regions[0].ISO31661 != "US" {
		t.Errorf("Unexpected regions %+v (err %v)", regions, err)
	}

	providers, err := client.MovieWatchProviders(ctx, map[string]string{"watch_region": "US"})
	if err != nil || len(providers) != 1 || providers[0].DisplayPriorities["US"] != 1 {
		t.Errorf("Unexpected providers %+v (err %v)", providers, err)
	}

	changes, err := client.MovieChanges(ctx, nil)
	if err != nil || len(changes.Results) != 2 || changes.Results[1].ID != 2 {
		t.Errorf("Unexpected changes %+v (err %v)", changes, err)
	}
}
