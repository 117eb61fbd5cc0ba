package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(app.GetVersionInfo().FullString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
