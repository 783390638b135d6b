package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marvelguide/core/internal/adapters/repository"
	"github.com/marvelguide/core/internal/application/services"
	"github.com/marvelguide/core/internal/infrastructure/config"
	"github.com/marvelguide/core/internal/infrastructure/logger"
	"github.com/marvelguide/core/internal/infrastructure/server"
	"github.com/marvelguide/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Marvel Movie Guide API server",
		Long:  "Start the API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8000, "Port to listen on")
	cmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	addDataFileFlag(cmd)
	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

// NewMoviesCommand creates the movies command with subcommands
func NewMoviesCommand() *cobra.Command {
	moviesCmd := &cobra.Command{
		Use:   "movies",
		Short: "Inspect and update the movie collection",
		Long:  "Read the movie collection or mark entries as watched directly on the data file",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print all movies as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCLIService()
			if err != nil {
				return err
			}
			return listMovies(cmd.Context(), svc, cmd.OutOrStdout())
		},
	}
	addDataFileFlag(listCmd)

	watchCmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Set the watched flag of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid movie id %q: %w", args[0], err)
			}
			watched, err := cmd.Flags().GetBool("watched")
			if err != nil {
				return fmt.Errorf("read --watched: %w", err)
			}

			svc, err := newCLIService()
			if err != nil {
				return err
			}
			return setWatched(cmd.Context(), svc, movieID, watched, cmd.OutOrStdout())
		},
	}
	watchCmd.Flags().Bool("watched", true, "Watched value to set")
	addDataFileFlag(watchCmd)

	moviesCmd.AddCommand(listCmd)
	moviesCmd.AddCommand(watchCmd)
	return moviesCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Marvel Movie Guide version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marvel Movie Guide API v%s\n", cfg.App.Version)
			return nil
		},
	}
}

// addDataFileFlag binds --data-file to movies.data_file when the command runs,
// so each subcommand owns its flag.
func addDataFileFlag(cmd *cobra.Command) {
	cmd.Flags().String("data-file", "", "Path to the movies JSON file")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.Flags().Lookup("data-file"); f != nil && f.Changed {
			viper.Set("movies.data_file", f.Value.String())
		}
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Infow("Starting Marvel Movie Guide API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_file", cfg.Movies.DataFile,
	)

	if err := srv.Run(ctx); err != nil {
		appLogger.Errorw("Server stopped with error", "error", err)
		return err
	}
	return nil
}

func newCLIService() (*services.MovieService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	repo := repository.NewMovieRepository(cfg.Movies.DataFile)
	return services.NewMovieService(repo, logger.NewNop(), services.WithStrictNotFound(cfg.Movies.StrictNotFound)), nil
}

func listMovies(ctx context.Context, svc ports.MovieService, out io.Writer) error {
	movies, err := svc.ListMovies(ctxOrBackground(ctx))
	if err != nil {
		return err
	}
	return writeJSON(out, ports.MoviesResponse{Movies: movies})
}

func setWatched(ctx context.Context, svc ports.MovieService, movieID int, watched bool, out io.Writer) error {
	resp, err := svc.SetWatched(ctxOrBackground(ctx), movieID, ports.UpdateWatchedRequest{Watched: &watched})
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
