package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marvelguide/core/internal/domain/entities"
	"github.com/marvelguide/core/internal/infrastructure/logger"
	"github.com/marvelguide/core/internal/ports"
)

// MovieHandler handles movie guide requests
type MovieHandler struct {
	movieService ports.MovieService
	logger       *logger.Logger
	greeting     string
}

// NewMovieHandler creates a new movie handler. greeting is the message served
// on the root route.
func NewMovieHandler(movieService ports.MovieService, logger *logger.Logger, greeting string) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		logger:       logger.WithComponent("movie_handler"),
		greeting:     greeting,
	}
}

// Root returns the static greeting
func (h *MovieHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: h.greeting})
}

// ListMovies returns the whole collection under "movies"
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.movieService.ListMovies(c.Request().Context())
	if err != nil {
		h.requestLogger(c).WithError(err).Errorw("List movies failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load movies").SetInternal(err)
	}

	return c.JSON(http.StatusOK, ports.MoviesResponse{Movies: movies})
}

// UpdateWatched sets the watched flag of one movie
func (h *MovieHandler) UpdateWatched(c echo.Context) error {
	movieID, err := strconv.Atoi(c.Param("movie_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, entities.ErrInvalidMovieID.Error())
	}

	// Clients that omit Content-Type still send JSON.
	if c.Request().Header.Get(echo.HeaderContentType) == "" {
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	var req ports.UpdateWatchedRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.movieService.SetWatched(c.Request().Context(), movieID, req)
	if err != nil {
		if errors.Is(err, entities.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Movie not found")
		}
		h.requestLogger(c).WithError(err).Errorw("Update watched failed", "movie_id", movieID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update movie").SetInternal(err)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *MovieHandler) requestLogger(c echo.Context) *logger.Logger {
	return h.logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
}
