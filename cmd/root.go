// Package cmd defines the command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
	"github.com/cadenzaapp/cadenza/internal/config"
)

var cascadeRemove bool

var rootCmd = &cobra.Command{
	Use:   "cadenza",
	Short: "Cadenza manages a personal music library.",
	Long: `Cadenza keeps a catalog of your music folders: it scans them for audio
files, extracts tag metadata, groups tracks into albums and artists, and
persists everything across restarts.`,
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cascadeRemove, "cascade-remove", false,
		"also remove a folder's tracks when the folder is removed")
}

// withApp assembles the application, runs fn, and shuts everything down
// afterwards. Every command invocation counts as a user gesture, so
// capability prompts are allowed.
func withApp(fn func(ctx context.Context, a *app.Application) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a, err := app.NewApplication(cfg, app.Options{
		CascadeRemoveFolderTracks: cascadeRemove,
	})
	if err != nil {
		return err
	}
	defer a.Shutdown()
	return fn(context.Background(), a)
}
