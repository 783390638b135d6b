package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/marvelguide/core/docs"
	httpHandlers "github.com/marvelguide/core/internal/adapters/http"
	"github.com/marvelguide/core/internal/adapters/repository"
	"github.com/marvelguide/core/internal/application/services"
	"github.com/marvelguide/core/internal/domain/entities"
	"github.com/marvelguide/core/internal/infrastructure/config"
	"github.com/marvelguide/core/internal/infrastructure/logger"
	"github.com/marvelguide/core/internal/infrastructure/metrics"
)

// Server represents the HTTP server
type Server struct {
	echo         *echo.Echo
	config       *config.Config
	logger       *logger.Logger
	metrics      *metrics.Metrics
	movieService *services.MovieService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.Debug

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
	}

	serviceOpts := []services.MovieServiceOption{
		services.WithStrictNotFound(cfg.Movies.StrictNotFound),
	}
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
		serviceOpts = append(serviceOpts, services.WithMetrics(server.metrics))
	}

	movieRepo := repository.NewMovieRepository(cfg.Movies.DataFile)
	server.movieService = services.NewMovieService(movieRepo, appLogger, serviceOpts...)

	movieHandler := httpHandlers.NewMovieHandler(server.movieService, appLogger, cfg.App.Name)

	server.setupMiddleware()
	server.setupRoutes(movieHandler)

	return server, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(movieHandler *httpHandlers.MovieHandler) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	s.echo.GET("/", movieHandler.Root)

	api := s.echo.Group("/api")
	api.GET("/movies", movieHandler.ListMovies)
	api.PATCH("/movies/:movie_id/watched", movieHandler.UpdateWatched)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.movieService.CheckDataFile(c.Request().Context()); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "data_file_unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address, "data_file", s.config.Movies.DataFile)
	return s.echo.Start(address)
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(s.config.Server.Address())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors

		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
			if s, ok := msg.(string); ok {
				msg = map[string]string{"message": s}
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		case errors.Is(err, entities.ErrMovieNotFound):
			code = http.StatusNotFound
			msg = map[string]string{"message": entities.ErrMovieNotFound.Error()}
		default:
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
