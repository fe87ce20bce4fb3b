package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tmdb-mcp-server/internal/domain"
)

const (
	movieURIPrefix   = "tmdb:///movie/"
	resourceMimeType = "application/json"
)

// ResourceHandler serves popular movies as MCP resources.
type ResourceHandler struct {
	source       domain.MovieSource
	imageBaseURL string
}

// NewResourceHandler creates a new ResourceHandler instance.
func NewResourceHandler(source domain.MovieSource, imageBaseURL string) *ResourceHandler {
	return &ResourceHandler{
		source:       source,
		imageBaseURL: imageBaseURL,
	}
}

// MovieURI returns the resource URI of a movie.
func MovieURI(id int) string {
	return movieURIPrefix + strconv.Itoa(id)
}

// ListResources lists one page of popular movies. The cursor is the page
// number to fetch; NextCursor is set only while further pages remain.
func (h *ResourceHandler) ListResources(ctx context.Context, cursor string) (*domain.ResourceList, error) {
	page := "1"
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 1 {
			return nil, &domain.Error{
				Code:    domain.InvalidParams,
				Message: "Invalid params",
				Data:    fmt.Sprintf("invalid cursor: %q", cursor),
			}
		}
		page = strconv.Itoa(n)
	}

	movies, err := h.source.PopularMovies(ctx, map[string]string{"page": page})
	if err != nil {
		return nil, err
	}

	list := &domain.ResourceList{
		Resources: make([]domain.ResourceDescriptor, 0, len(movies.Results)),
	}
	for _, movie := range movies.Results {
		list.Resources = append(list.Resources, domain.ResourceDescriptor{
			URI:      MovieURI(movie.ID),
			MimeType: resourceMimeType,
			Name:     fmt.Sprintf("%s (%s)", movie.Title, domain.ReleaseYear(movie.ReleaseDate)),
		})
	}

	if movies.HasNext() {
		list.NextCursor = strconv.Itoa(movies.Page + 1)
	}

	return list, nil
}

// ReadResource returns the movie detail document for a tmdb:///movie/{id} URI.
func (h *ResourceHandler) ReadResource(ctx context.Context, uri string) (*domain.ResourceReadResult, error) {
	movieID, ok := strings.CutPrefix(uri, movieURIPrefix)
	if !ok || movieID == "" || strings.ContainsRune(movieID, '/') {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: "Invalid params",
			Data:    fmt.Sprintf("unsupported resource URI: %s", uri),
		}
	}

	details, err := h.source.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}

	text, err := json.MarshalIndent(domain.NewMovieInfo(details, h.imageBaseURL), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode movie %s: %w", movieID, err)
	}

	return &domain.ResourceReadResult{
		Contents: []domain.ResourceContents{{
			URI:      uri,
			MimeType: resourceMimeType,
			Text:     string(text),
		}},
	}, nil
}
