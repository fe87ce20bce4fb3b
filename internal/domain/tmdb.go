package domain

import (
	"encoding/json"
)

// Page is one page of a paginated TMDB list response.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasNext reports whether pages remain after this one.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Movie is the list projection of a TMDB movie.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
}

// TVShow is the list projection of a TMDB TV series.
type TVShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
}

// Person is the list projection of a TMDB person.
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path,omitempty"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the body of /genre/{movie,tv}/list.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

type Collection struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

type Company struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ChangeEntry is one row of a change list. The list endpoints
// (/movie/changes, ...) return only IDs; per-item change endpoints return a
// key with its change items.
type ChangeEntry struct {
	ID    int               `json:"id,omitempty"`
	Adult *bool             `json:"adult,omitempty"`
	Key   string            `json:"key,omitempty"`
	Items []json.RawMessage `json:"items,omitempty"`
}

// WatchRegion is a country in which watch provider data exists.
type WatchRegion struct {
	ISO31661    string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name,omitempty"`
}

// WatchRegionList is the body of /watch/providers/regions.
type WatchRegionList struct {
	Results []WatchRegion `json:"results"`
}

// WatchProvider is a streaming/rental provider with its per-region ranking.
type WatchProvider struct {
	ProviderID        int            `json:"provider_id"`
	ProviderName      string         `json:"provider_name"`
	LogoPath          string         `json:"logo_path,omitempty"`
	DisplayPriority   int            `json:"display_priority"`
	DisplayPriorities map[string]int `json:"display_priorities"`
}

// WatchProviderList is the body of /watch/providers/{movie,tv}.
type WatchProviderList struct {
	Results []WatchProvider `json:"results"`
}

// FindResults is the body of /find/{external_id}.
type FindResults struct {
	MovieResults  []Movie  `json:"movie_results"`
	TVResults     []TVShow `json:"tv_results"`
	PersonResults []Person `json:"person_results"`
}

// MovieDetails is /movie/{id} with credits and reviews appended.
type MovieDetails struct {
	Movie
	Runtime int           `json:"runtime,omitempty"`
	Tagline string        `json:"tagline,omitempty"`
	Credits *Credits      `json:"credits,omitempty"`
	Reviews *Page[Review] `json:"reviews,omitempty"`
}

// Credits lists the cast and crew of a title.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Review is a user review attached to a movie.
type Review struct {
	Author        string        `json:"author"`
	Content       string        `json:"content"`
	AuthorDetails AuthorDetails `json:"author_details"`
}

type AuthorDetails struct {
	Rating *float64 `json:"rating"`
}

// Director returns the first crew member credited as Director.
func (d *MovieDetails) Director() string {
	if d.Credits == nil {
		return ""
	}
	for _, member := range d.Credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}
