package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatMovies(t *testing.T) {
	movies := []Movie{
		{ID: 438631, Title: "Dune", ReleaseDate: "2021-10-22", VoteAverage: 8.0, Overview: "Paul Atreides..."},
		{ID: 693134, Title: "Dune: Part Two", ReleaseDate: "2024-02-27", VoteAverage: 8.25, Overview: "Follow the mythic journey..."},
	}

	got := FormatMovies(movies, `Found 2 movies for "Dune" (Page 1 of 1)`)
	want := "Found 2 movies for \"Dune\" (Page 1 of 1):\n\n" +
		"Dune (2021) - ID: 438631\nRating: 8/10\nOverview: Paul Atreides...\n" +
		"\n---\n" +
		"Dune: Part Two (2024) - ID: 693134\nRating: 8.25/10\nOverview: Follow the mythic journey...\n"

	if got != want {
		t.Errorf("FormatMovies mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatMovies_MissingReleaseDate(t *testing.T) {
	got := FormatMovies([]Movie{{ID: 1, Title: "Untitled"}}, "Movies")
	if !strings.Contains(got, "Untitled () - ID: 1") {
		t.Errorf("Expected empty year segment, got %q", got)
	}
}

func TestFormatMovies_Empty(t *testing.T) {
	if got := FormatMovies(nil, "Popular Movies (Page 1 of 1)"); got != "Popular Movies (Page 1 of 1):\n\n" {
		t.Errorf("Unexpected output for empty list: %q", got)
	}
}

func TestFormatTVShows(t *testing.T) {
	got := FormatTVShows([]TVShow{{ID: 1396, Name: "Breaking Bad", FirstAirDate: "2008-01-20", VoteAverage: 8.9, Overview: "A chemistry teacher..."}}, "Popular TV Shows (Page 1 of 5)")
	want := "Popular TV Shows (Page 1 of 5):\n\nBreaking Bad (2008) - ID: 1396\nRating: 8.9/10\nOverview: A chemistry teacher...\n"
	if got != want {
		t.Errorf("FormatTVShows mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatPeople(t *testing.T) {
	got := FormatPeople([]Person{{ID: 1190668, Name: "Timothée Chalamet", KnownForDepartment: "Acting", Popularity: 54.3}}, "People (1)")
	want := "People (1):\n\nTimothée Chalamet - ID: 1190668\nDepartment: Acting\nPopularity: 54.3\n"
	if got != want {
		t.Errorf("FormatPeople mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatCollectionsCompaniesKeywords(t *testing.T) {
	collections := FormatCollections([]Collection{{ID: 726871, Name: "Dune Collection", Overview: "Sci-fi saga"}}, "Collections")
	if collections != "Collections:\n\nDune Collection - ID: 726871\nOverview: Sci-fi saga\n" {
		t.Errorf("Unexpected collections output: %q", collections)
	}

	companies := FormatCompanies([]Company{{ID: 923, Name: "Legendary Pictures", OriginCountry: "US"}}, "Companies")
	if companies != "Companies:\n\nLegendary Pictures - ID: 923\nCountry: US\n" {
		t.Errorf("Unexpected companies output: %q", companies)
	}

	keywords := FormatKeywords([]Keyword{{ID: 1, Name: "desert"}, {ID: 2, Name: "spice"}}, "Keywords")
	if keywords != "Keywords:\n\ndesert - ID: 1\n\n---\nspice - ID: 2\n" {
		t.Errorf("Unexpected keywords output: %q", keywords)
	}
}

func TestFormatGenres(t *testing.T) {
	got := FormatGenres([]Genre{{ID: 28, Name: "Action"}, {ID: 12, Name: "Adventure"}}, "Movie Genres")
	if got != "Movie Genres:\n\nAction - ID: 28\nAdventure - ID: 12" {
		t.Errorf("Unexpected genres output: %q", got)
	}
}

func TestFormatChanges(t *testing.T) {
	changes := []ChangeEntry{
		{ID: 550},
		{Key: "overview", Items: []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{}`)}},
	}
	got := FormatChanges(changes, "Movie Changes (Page 1 of 3)")
	if got != "Movie Changes (Page 1 of 3):\n\nID: 550\noverview: 2 changes" {
		t.Errorf("Unexpected changes output: %q", got)
	}
}

func TestFormatMediaItems(t *testing.T) {
	items := []MediaItem{
		{Kind: MediaMovie, Movie: &Movie{ID: 1, Title: "Dune"}},
		{Kind: MediaKind("collection")},
		{Kind: MediaTV, TV: &TVShow{ID: 2, Name: "Shōgun"}},
		{Kind: MediaPerson, Person: &Person{ID: 3, Name: "Zendaya"}},
	}

	got := FormatMediaItems(items, "Trending items for the day (Page 1 of 1)")
	want := "Trending items for the day (Page 1 of 1):\n\n" +
		"Dune (Movie) - ID: 1\n---\nShōgun (TV Show) - ID: 2\n---\nZendaya (Person) - ID: 3"
	if got != want {
		t.Errorf("FormatMediaItems mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatWatchRegions(t *testing.T) {
	got := FormatWatchRegions([]WatchRegion{{ISO31661: "US"}, {ISO31661: "GB"}, {ISO31661: "DE"}}, "Available Watch Provider Regions")
	if got != "Available Watch Provider Regions:\n\nUS, GB, DE" {
		t.Errorf("Unexpected regions output: %q", got)
	}
}

func TestFormatWatchProviders(t *testing.T) {
	providers := []WatchProvider{
		{ProviderName: "Netflix", DisplayPriorities: map[string]int{"US": 2, "GB": 1}},
		{ProviderName: "Hulu", DisplayPriorities: map[string]int{"US": 1}},
		{ProviderName: "Apple TV", DisplayPriorities: map[string]int{"US": 2}},
	}

	got := FormatWatchProviders(providers, "Movie Watch Providers")
	want := "Movie Watch Providers:\n\nGB: Netflix\nUS: Hulu, Apple TV, Netflix"
	if got != want {
		t.Errorf("FormatWatchProviders mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatMediaSections(t *testing.T) {
	t.Run("only movies", func(t *testing.T) {
		results := MediaResults{Movies: []Movie{{ID: 278, Title: "The Shawshank Redemption", ReleaseDate: "1994-09-23", VoteAverage: 8.7}}}
		got := FormatMediaSections(`Find results for imdb_id ID "tt0111161"`, results)

		if !strings.HasPrefix(got, "Find results for imdb_id ID \"tt0111161\":\n\nMovies (1):\n\n") {
			t.Errorf("Unexpected heading: %q", got)
		}
		if strings.Contains(got, "TV Shows") || strings.Contains(got, "People") {
			t.Errorf("Empty sections must be omitted: %q", got)
		}
	})

	t.Run("all sections", func(t *testing.T) {
		results := MediaResults{
			Movies:  []Movie{{ID: 1, Title: "A"}},
			TVShows: []TVShow{{ID: 2, Name: "B"}},
			People:  []Person{{ID: 3, Name: "C"}},
		}
		got := FormatMediaSections("Search results for \"x\"", results)

		movies := strings.Index(got, "Movies (1):")
		tv := strings.Index(got, "\n\nTV Shows (1):")
		people := strings.Index(got, "\n\nPeople (1):")
		if movies < 0 || tv < movies || people < tv {
			t.Errorf("Expected Movies, TV Shows, People in order, got %q", got)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		got := FormatMediaSections("Search results for \"zzz\"", MediaResults{})
		if got != "Search results for \"zzz\":\n\nNo results found." {
			t.Errorf("Unexpected empty output: %q", got)
		}
	})
}

func sampleDetails() *MovieDetails {
	rating := 9.0
	return &MovieDetails{
		Movie: Movie{
			ID:          438631,
			Title:       "Dune",
			ReleaseDate: "2021-10-22",
			VoteAverage: 7.8,
			Overview:    "Paul Atreides...",
			PosterPath:  "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
			Genres:      []Genre{{ID: 878, Name: "Science Fiction"}, {ID: 12, Name: "Adventure"}},
		},
		Runtime: 155,
		Tagline: "Beyond fear, destiny awaits.",
		Credits: &Credits{
			Cast: []CastMember{
				{Name: "Timothée Chalamet", Character: "Paul Atreides"},
				{Name: "Rebecca Ferguson", Character: "Lady Jessica"},
				{Name: "Oscar Isaac", Character: "Duke Leto"},
				{Name: "Josh Brolin", Character: "Gurney Halleck"},
				{Name: "Stellan Skarsgård", Character: "Baron Harkonnen"},
				{Name: "Zendaya", Character: "Chani"},
			},
			Crew: []CrewMember{
				{Name: "Hans Zimmer", Job: "Original Music Composer"},
				{Name: "Denis Villeneuve", Job: "Director"},
			},
		},
		Reviews: &Page[Review]{
			Page: 1,
			Results: []Review{
				{Author: "a", Content: "one", AuthorDetails: AuthorDetails{Rating: &rating}},
				{Author: "b", Content: strings.Repeat("x", 400)},
				{Author: "c", Content: "three"},
				{Author: "d", Content: "four"},
			},
		},
	}
}

func TestNewMovieInfo(t *testing.T) {
	info := NewMovieInfo(sampleDetails(), DefaultImageBaseURL)

	if info.PosterURL != "https://image.tmdb.org/t/p/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg" {
		t.Errorf("Unexpected poster URL: %s", info.PosterURL)
	}
	if info.Genres != "Science Fiction, Adventure" {
		t.Errorf("Unexpected genres: %s", info.Genres)
	}
	if len(info.Cast) != 5 || info.Cast[0] != "Timothée Chalamet as Paul Atreides" {
		t.Errorf("Expected top 5 cast, got %v", info.Cast)
	}
	if info.Director != "Denis Villeneuve" {
		t.Errorf("Expected director Denis Villeneuve, got %s", info.Director)
	}
	if len(info.Reviews) != 3 {
		t.Fatalf("Expected 3 reviews, got %d", len(info.Reviews))
	}
	if info.Reviews[0].Rating == nil || *info.Reviews[0].Rating != 9.0 {
		t.Errorf("Expected first review rating 9, got %v", info.Reviews[0].Rating)
	}
	if info.Reviews[1].Rating != nil {
		t.Errorf("Expected unrated second review, got %v", *info.Reviews[1].Rating)
	}
}

func TestNewMovieInfo_OptionalFieldsAbsent(t *testing.T) {
	info := NewMovieInfo(&MovieDetails{Movie: Movie{ID: 1, Title: "Bare"}}, DefaultImageBaseURL)

	if info.PosterURL != "No poster available" {
		t.Errorf("Expected placeholder poster, got %s", info.PosterURL)
	}
	if info.Director != "" || info.Cast != nil || info.Reviews != nil {
		t.Errorf("Expected no credits or reviews, got %+v", info)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	for _, key := range []string{`"cast"`, `"director"`, `"reviews"`} {
		if strings.Contains(string(data), key) {
			t.Errorf("Expected %s to be omitted, got %s", key, data)
		}
	}
}

func TestFormatMovieDetails(t *testing.T) {
	got := FormatMovieDetails(sampleDetails(), DefaultImageBaseURL)

	for _, want := range []string{
		"Dune (2021) - ID: 438631\n",
		"Rating: 7.8/10\n",
		"Runtime: 155 minutes\n",
		"Tagline: Beyond fear, destiny awaits.\n",
		"Genres: Science Fiction, Adventure\n",
		"Director: Denis Villeneuve\n",
		"Cast: Timothée Chalamet as Paul Atreides, ",
		"\nReviews:\n- a (9/10): one\n",
		"- b: " + strings.Repeat("x", 300) + "...\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q\n got: %s", want, got)
		}
	}
	if strings.Contains(got, "- d:") {
		t.Error("Only the first three reviews should be shown")
	}
}

func TestReleaseYear(t *testing.T) {
	cases := map[string]string{
		"2021-10-22": "2021",
		"1994":       "1994",
		"":           "",
	}
	for in, want := range cases {
		if got := ReleaseYear(in); got != want {
			t.Errorf("ReleaseYear(%q) = %q, want %q", in, got, want)
		}
	}
}
