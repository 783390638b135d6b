package ports

import (
	"context"

	"github.com/marvelguide/core/internal/domain/entities"
)

// MovieRepository defines the interface for movie data operations
type MovieRepository interface {
	Load(ctx context.Context) ([]entities.Movie, error)
	Save(ctx context.Context, movies []entities.Movie) error
	// UpdateWatched runs load, first-match update and save as one step.
	// With skipUnmatched set, nothing is written when no record matches.
	UpdateWatched(ctx context.Context, id int, watched bool, skipUnmatched bool) (bool, error)
	Path() string
}
