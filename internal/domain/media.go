package domain

import (
	"encoding/json"
)

// MediaKind tags the record family carried by a MediaItem.
type MediaKind string

const (
	MediaMovie  MediaKind = "movie"
	MediaTV     MediaKind = "tv"
	MediaPerson MediaKind = "person"
)

// MediaItem is an element of a mixed-kind list (trending/all, search/multi).
// Exactly one of Movie, TV or Person is set, matching Kind. Items whose
// media_type is missing or unknown keep their Kind and carry no payload.
type MediaItem struct {
	Kind   MediaKind
	Movie  *Movie
	TV     *TVShow
	Person *Person
}

// UnmarshalJSON decodes the item according to its media_type field.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		MediaType MediaKind `json:"media_type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	*m = MediaItem{Kind: probe.MediaType}

	switch probe.MediaType {
	case MediaMovie:
		m.Movie = &Movie{}
		return json.Unmarshal(data, m.Movie)
	case MediaTV:
		m.TV = &TVShow{}
		return json.Unmarshal(data, m.TV)
	case MediaPerson:
		m.Person = &Person{}
		return json.Unmarshal(data, m.Person)
	}

	return nil
}

// MediaResults groups mixed-kind records by family.
type MediaResults struct {
	Movies  []Movie
	TVShows []TVShow
	People  []Person
}

// IsEmpty reports whether no family has any record.
func (r MediaResults) IsEmpty() bool {
	return len(r.Movies) == 0 && len(r.TVShows) == 0 && len(r.People) == 0
}

// SplitMedia partitions mixed-kind items by family, preserving order.
func SplitMedia(items []MediaItem) MediaResults {
	var results MediaResults
	for _, item := range items {
		switch {
		case item.Movie != nil:
			results.Movies = append(results.Movies, *item.Movie)
		case item.TV != nil:
			results.TVShows = append(results.TVShows, *item.TV)
		case item.Person != nil:
			results.People = append(results.People, *item.Person)
		}
	}
	return results
}

// Media returns the find results grouped the same way as a multi search.
func (f *FindResults) Media() MediaResults {
	return MediaResults{
		Movies:  f.MovieResults,
		TVShows: f.TVResults,
		People:  f.PersonResults,
	}
}
