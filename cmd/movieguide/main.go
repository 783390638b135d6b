package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/marvelguide/core/cmd/movieguide/commands"
)

// @title Marvel Movie Guide API
// @version 1.0
// @description Serves the Marvel movies and shows collection and tracks what has been watched
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "movieguide",
		Short: "Marvel Movie Guide API Server",
		Long:  `Marvel Movie Guide serves a JSON collection of Marvel movies and shows and lets clients mark entries as watched.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMoviesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
