package services

import (
	"context"
	"fmt"

	"github.com/marvelguide/core/internal/domain/entities"
	"github.com/marvelguide/core/internal/infrastructure/logger"
	"github.com/marvelguide/core/internal/infrastructure/metrics"
	"github.com/marvelguide/core/internal/ports"
)

// MovieService handles movie guide operations
type MovieService struct {
	movieRepo      ports.MovieRepository
	metrics        *metrics.Metrics
	logger         *logger.Logger
	strictNotFound bool
}

// MovieServiceOption configures a MovieService
type MovieServiceOption func(*MovieService)

// WithStrictNotFound makes SetWatched fail with ErrMovieNotFound on an
// unknown id and leave the data file untouched.
func WithStrictNotFound(strict bool) MovieServiceOption {
	return func(s *MovieService) {
		s.strictNotFound = strict
	}
}

// WithMetrics records watched updates on m
func WithMetrics(m *metrics.Metrics) MovieServiceOption {
	return func(s *MovieService) {
		s.metrics = m
	}
}

// NewMovieService creates a new movie service
func NewMovieService(movieRepo ports.MovieRepository, logger *logger.Logger, opts ...MovieServiceOption) *MovieService {
	s := &MovieService{
		movieRepo: movieRepo,
		logger:    logger.WithComponent("movie_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMovies returns every record in file order
func (s *MovieService) ListMovies(ctx context.Context) ([]entities.Movie, error) {
	movies, err := s.movieRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	return movies, nil
}

// SetWatched sets the watched flag of the first movie with movieID.
//
// An unknown id is reported as success and the collection is rewritten
// unchanged, unless the service runs in strict mode.
func (s *MovieService) SetWatched(ctx context.Context, movieID int, req ports.UpdateWatchedRequest) (*ports.UpdateWatchedResponse, error) {
	if req.Watched == nil {
		return nil, fmt.Errorf("watched is required")
	}
	watched := *req.Watched

	matched, err := s.movieRepo.UpdateWatched(ctx, movieID, watched, s.strictNotFound)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie %d: %w", movieID, err)
	}

	s.metrics.ObserveWatchedUpdate(matched)
	s.logger.LogWatchedChange(movieID, watched, matched, s.movieRepo.Path())

	if !matched && s.strictNotFound {
		return nil, fmt.Errorf("movie %d: %w", movieID, entities.ErrMovieNotFound)
	}

	return &ports.UpdateWatchedResponse{
		Success: true,
		MovieID: movieID,
		Watched: watched,
	}, nil
}

// CheckDataFile verifies the data file can be read and parsed
func (s *MovieService) CheckDataFile(ctx context.Context) error {
	if _, err := s.movieRepo.Load(ctx); err != nil {
		return fmt.Errorf("data file %s not ready: %w", s.movieRepo.Path(), err)
	}
	return nil
}

var _ ports.MovieService = (*MovieService)(nil)
