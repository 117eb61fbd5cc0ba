package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all registered folders for audio files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			started, err := a.Scan(ctx, true)
			if !started {
				cmd.Println("a scan is already running")
				return nil
			}
			if err != nil {
				return err
			}
			session := a.Store().Session()
			cmd.Printf("scan complete: %d files processed, %d tracks in library\n",
				session.Total, len(a.Store().Tracks()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
