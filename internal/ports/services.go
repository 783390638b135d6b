package ports

import (
	"context"

	"github.com/marvelguide/core/internal/domain/entities"
)

// MovieService interface for movie guide operations
type MovieService interface {
	ListMovies(ctx context.Context) ([]entities.Movie, error)
	SetWatched(ctx context.Context, movieID int, req UpdateWatchedRequest) (*UpdateWatchedResponse, error)
	CheckDataFile(ctx context.Context) error
}

// Request/Response DTOs

// UpdateWatchedRequest is the PATCH body. Watched is a pointer so that a
// missing field fails the required check while false stays valid.
type UpdateWatchedRequest struct {
	Watched *bool `json:"watched" validate:"required"`
}

type UpdateWatchedResponse struct {
	Success bool `json:"success"`
	MovieID int  `json:"movie_id"`
	Watched bool `json:"watched"`
}

type MoviesResponse struct {
	Movies []entities.Movie `json:"movies"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
