package domain

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

const (
	recordSeparator = "\n---\n"
	lineSeparator   = "\n"

	detailCastLimit   = 5
	detailReviewLimit = 3
	reviewExcerptLen  = 300

	noPoster = "No poster available"
)

// formatList renders "{title}:\n\n" followed by each record joined with sep.
func formatList[T any](title string, records []T, sep string, render func(T) string) string {
	parts := make([]string, 0, len(records))
	for _, record := range records {
		parts = append(parts, render(record))
	}
	return title + ":\n\n" + strings.Join(parts, sep)
}

// FormatMovies renders movies as titled, delimited text blocks.
func FormatMovies(movies []Movie, title string) string {
	return formatList(title, movies, recordSeparator, func(m Movie) string {
		return fmt.Sprintf("%s (%s) - ID: %d\nRating: %s/10\nOverview: %s\n",
			m.Title, ReleaseYear(m.ReleaseDate), m.ID, formatNumber(m.VoteAverage), m.Overview)
	})
}

// FormatTVShows renders TV shows as titled, delimited text blocks.
func FormatTVShows(shows []TVShow, title string) string {
	return formatList(title, shows, recordSeparator, func(s TVShow) string {
		return fmt.Sprintf("%s (%s) - ID: %d\nRating: %s/10\nOverview: %s\n",
			s.Name, ReleaseYear(s.FirstAirDate), s.ID, formatNumber(s.VoteAverage), s.Overview)
	})
}

// FormatPeople renders people as titled, delimited text blocks.
func FormatPeople(people []Person, title string) string {
	return formatList(title, people, recordSeparator, func(p Person) string {
		return fmt.Sprintf("%s - ID: %d\nDepartment: %s\nPopularity: %s\n",
			p.Name, p.ID, p.KnownForDepartment, formatNumber(p.Popularity))
	})
}

func FormatCollections(collections []Collection, title string) string {
	return formatList(title, collections, recordSeparator, func(c Collection) string {
		return fmt.Sprintf("%s - ID: %d\nOverview: %s\n", c.Name, c.ID, c.Overview)
	})
}

func FormatCompanies(companies []Company, title string) string {
	return formatList(title, companies, recordSeparator, func(c Company) string {
		return fmt.Sprintf("%s - ID: %d\nCountry: %s\n", c.Name, c.ID, c.OriginCountry)
	})
}

func FormatKeywords(keywords []Keyword, title string) string {
	return formatList(title, keywords, recordSeparator, func(k Keyword) string {
		return fmt.Sprintf("%s - ID: %d\n", k.Name, k.ID)
	})
}

// FormatGenres renders one "name - ID: id" line per genre.
func FormatGenres(genres []Genre, title string) string {
	return formatList(title, genres, lineSeparator, func(g Genre) string {
		return fmt.Sprintf("%s - ID: %d", g.Name, g.ID)
	})
}

// FormatMediaItems renders a mixed-kind list, labelling each record by its kind.
// Items without a payload are skipped.
func FormatMediaItems(items []MediaItem, title string) string {
	known := slices.DeleteFunc(slices.Clone(items), func(item MediaItem) bool {
		return item.Movie == nil && item.TV == nil && item.Person == nil
	})

	return formatList(title, known, recordSeparator, func(item MediaItem) string {
		switch {
		case item.Movie != nil:
			return fmt.Sprintf("%s (Movie) - ID: %d", item.Movie.Title, item.Movie.ID)
		case item.TV != nil:
			return fmt.Sprintf("%s (TV Show) - ID: %d", item.TV.Name, item.TV.ID)
		default:
			return fmt.Sprintf("%s (Person) - ID: %d", item.Person.Name, item.Person.ID)
		}
	})
}

// FormatChanges renders one line per change entry.
func FormatChanges(changes []ChangeEntry, title string) string {
	return formatList(title, changes, lineSeparator, func(c ChangeEntry) string {
		if c.Key != "" {
			return fmt.Sprintf("%s: %d changes", c.Key, len(c.Items))
		}
		return fmt.Sprintf("ID: %d", c.ID)
	})
}

// FormatWatchRegions renders the region codes as one comma-separated line.
func FormatWatchRegions(regions []WatchRegion, title string) string {
	codes := make([]string, 0, len(regions))
	for _, region := range regions {
		codes = append(codes, region.ISO31661)
	}
	return title + ":\n\n" + strings.Join(codes, ", ")
}

// FormatWatchProviders renders one "REGION: provider, provider" line per
// region, regions sorted by code and providers by their display priority there.
func FormatWatchProviders(providers []WatchProvider, title string) string {
	type ranked struct {
		name     string
		priority int
	}

	byRegion := make(map[string][]ranked)
	for _, provider := range providers {
		for region, priority := range provider.DisplayPriorities {
			byRegion[region] = append(byRegion[region], ranked{name: provider.ProviderName, priority: priority})
		}
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	return formatList(title, regions, lineSeparator, func(region string) string {
		entries := byRegion[region]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].priority != entries[j].priority {
				return entries[i].priority < entries[j].priority
			}
			return entries[i].name < entries[j].name
		})

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.name)
		}
		return region + ": " + strings.Join(names, ", ")
	})
}

// FormatMediaSections renders the non-empty Movies / TV Shows / People
// sections under heading, separated by blank lines.
func FormatMediaSections(heading string, results MediaResults) string {
	if results.IsEmpty() {
		return heading + ":\n\nNo results found."
	}

	var sections []string
	if len(results.Movies) > 0 {
		sections = append(sections, FormatMovies(results.Movies, fmt.Sprintf("Movies (%d)", len(results.Movies))))
	}
	if len(results.TVShows) > 0 {
		sections = append(sections, FormatTVShows(results.TVShows, fmt.Sprintf("TV Shows (%d)", len(results.TVShows))))
	}
	if len(results.People) > 0 {
		sections = append(sections, FormatPeople(results.People, fmt.Sprintf("People (%d)", len(results.People))))
	}

	return heading + ":\n\n" + strings.Join(sections, "\n\n")
}

// MovieInfo is the JSON document served for a tmdb:///movie/{id} resource.
type MovieInfo struct {
	Title       string       `json:"title"`
	ReleaseDate string       `json:"releaseDate"`
	Rating      float64      `json:"rating"`
	Overview    string       `json:"overview"`
	Genres      string       `json:"genres,omitempty"`
	PosterURL   string       `json:"posterUrl"`
	Cast        []string     `json:"cast,omitempty"`
	Director    string       `json:"director,omitempty"`
	Reviews     []ReviewInfo `json:"reviews,omitempty"`
}

type ReviewInfo struct {
	Author  string   `json:"author"`
	Content string   `json:"content"`
	Rating  *float64 `json:"rating,omitempty"`
}

// NewMovieInfo projects movie details into the resource document: the first
// five cast members, the director and the first three reviews.
func NewMovieInfo(details *MovieDetails, imageBaseURL string) MovieInfo {
	info := MovieInfo{
		Title:       details.Title,
		ReleaseDate: details.ReleaseDate,
		Rating:      details.VoteAverage,
		Overview:    details.Overview,
		Genres:      genreNames(details.Genres),
		PosterURL:   PosterURL(imageBaseURL, details.PosterPath),
		Director:    details.Director(),
	}

	if details.Credits != nil {
		for _, member := range firstN(details.Credits.Cast, detailCastLimit) {
			info.Cast = append(info.Cast, fmt.Sprintf("%s as %s", member.Name, member.Character))
		}
	}

	if details.Reviews != nil {
		for _, review := range firstN(details.Reviews.Results, detailReviewLimit) {
			info.Reviews = append(info.Reviews, ReviewInfo{
				Author:  review.Author,
				Content: review.Content,
				Rating:  review.AuthorDetails.Rating,
			})
		}
	}

	return info
}

// FormatMovieDetails renders a single movie with credits and reviews.
// Lines for absent optional fields are omitted.
func FormatMovieDetails(details *MovieDetails, imageBaseURL string) string {
	info := NewMovieInfo(details, imageBaseURL)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) - ID: %d\n", details.Title, ReleaseYear(details.ReleaseDate), details.ID)
	fmt.Fprintf(&b, "Rating: %s/10\n", formatNumber(details.VoteAverage))
	if details.Runtime > 0 {
		fmt.Fprintf(&b, "Runtime: %d minutes\n", details.Runtime)
	}
	if details.Tagline != "" {
		fmt.Fprintf(&b, "Tagline: %s\n", details.Tagline)
	}
	if info.Genres != "" {
		fmt.Fprintf(&b, "Genres: %s\n", info.Genres)
	}
	if info.Director != "" {
		fmt.Fprintf(&b, "Director: %s\n", info.Director)
	}
	if len(info.Cast) > 0 {
		fmt.Fprintf(&b, "Cast: %s\n", strings.Join(info.Cast, ", "))
	}
	fmt.Fprintf(&b, "Overview: %s\n", details.Overview)
	fmt.Fprintf(&b, "Poster: %s\n", info.PosterURL)

	if len(info.Reviews) > 0 {
		b.WriteString("\nReviews:\n")
		for _, review := range info.Reviews {
			if review.Rating != nil {
				fmt.Fprintf(&b, "- %s (%s/10): %s\n", review.Author, formatNumber(*review.Rating), excerpt(review.Content, reviewExcerptLen))
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", review.Author, excerpt(review.Content, reviewExcerptLen))
			}
		}
	}

	return b.String()
}

// PosterURL joins the image base URL and a poster path.
func PosterURL(imageBaseURL, posterPath string) string {
	if posterPath == "" {
		return noPoster
	}
	return strings.TrimSuffix(imageBaseURL, "/") + posterPath
}

// ReleaseYear returns the year part of a YYYY-MM-DD date, or "" when absent.
func ReleaseYear(date string) string {
	y, _, _ := strings.Cut(date, "-")
	return y
}

// formatNumber prints a float the shortest way that round-trips: 8 not 8.0, 7.25 not 7.250000.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func genreNames(genres []Genre) string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		names = append(names, genre.Name)
	}
	return strings.Join(names, ", ")
}

func excerpt(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
