package domain

import (
	"context"
)

// MovieSource is the slice of the TMDB client the resource surface needs.
type MovieSource interface {
	// PopularMovies returns one page of /movie/popular.
	PopularMovies(ctx context.Context, params map[string]string) (*Page[Movie], error)

	// MovieDetails returns /movie/{id} with credits and reviews appended.
	MovieDetails(ctx context.Context, movieID string) (*MovieDetails, error)
}
