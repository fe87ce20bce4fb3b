package application

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

const testImageBaseURL = "https://image.tmdb.org/t/p/w500"

// fakeTMDB is an httptest server that answers TMDB paths from a fixed table.
type fakeTMDB struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]string
	status int
	last   url.Values
	hits   atomic.Int64
}

// newFakeTMDB starts a server serving routes (path -> JSON body).
// Unknown paths get TMDB's 404 body.
func newFakeTMDB(t *testing.T, routes map[string]string) *fakeTMDB {
	t.Helper()

	fake := &fakeTMDB{routes: routes}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Close)
	return fake
}

// newFailingTMDB starts a server that answers every request with status.
func newFailingTMDB(t *testing.T, status int) *fakeTMDB {
	fake := newFakeTMDB(t, nil)
	fake.mu.Lock()
	fake.status = status
	fake.mu.Unlock()
	return fake
}

func (f *fakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)

	f.mu.Lock()
	f.last = r.URL.Query()
	body, ok := f.routes[r.URL.Path]
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case status != 0:
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"status_code":0,"status_message":"%s"}`, http.StatusText(status))
	case !ok:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`))
	default:
		w.Write([]byte(body))
	}
}

// lastQuery returns the query string of the most recent request.
func (f *fakeTMDB) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeTMDB) client(t *testing.T) *infrastructure.TMDBClient {
	t.Helper()

	httpClient, err := domain.NewAPIKeyClient("test-key", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to create HTTP client: %v", err)
	}
	return infrastructure.NewTMDBClient(f.URL, httpClient, domain.NewNopLogger())
}

// newTestRouter wires every tool handler against the fake server.
func newTestRouter(t *testing.T, fake *fakeTMDB) *RequestRouter {
	t.Helper()

	client := fake.client(t)
	return NewRequestRouter(
		domain.NewResponseMapper(),
		domain.NewNopLogger(),
		NewMovieHandler(client, testImageBaseURL),
		NewTVHandler(client),
		NewPeopleHandler(client),
		NewSearchHandler(client),
		NewTrendingHandler(client),
		NewReferenceHandler(client),
	)
}

// moviePage renders a page of n synthetic movies.
func moviePage(page, totalPages, n int) string {
	movies := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, fmt.Sprintf(
			`{"id":%d,"title":"Movie %d","release_date":"2020-01-%02d","vote_average":7.5,"overview":"Overview %d"}`,
			i, i, (i%28)+1, i))
	}
	return fmt.Sprintf(`{"page":%d,"total_pages":%d,"total_results":%d,"results":[%s]}`,
		page, totalPages, n, strings.Join(movies, ","))
}

const duneSearchBody = `{"page":1,"total_pages":1,"total_results":1,"results":[
	{"id":438631,"title":"Dune","release_date":"2021-09-15","vote_average":7.8,
	 "overview":"Paul Atreides, a brilliant and gifted young man born into a great destiny beyond his understanding...",
	 "poster_path":"/d5NXSklXo0qyIYkgV94XAgMIckC.jpg"}]}`

const duneDetailsBody = `{"id":438631,"title":"Dune","release_date":"2021-09-15","vote_average":7.8,
	"overview":"Paul Atreides leads nomadic tribes in a battle to control the desert planet Arrakis.",
	"poster_path":"/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
	"genres":[{"id":878,"name":"Science Fiction"},{"id":12,"name":"Adventure"}],
	"credits":{"cast":[
		{"name":"Timothée Chalamet","character":"Paul Atreides"},
		{"name":"Rebecca Ferguson","character":"Lady Jessica"}],
	 "crew":[{"name":"Denis Villeneuve","job":"Director"}]},
	"reviews":{"page":1,"total_pages":1,"results":[
		{"author":"Chris","content":"A masterpiece.","author_details":{"rating":9.0}}]}}`
