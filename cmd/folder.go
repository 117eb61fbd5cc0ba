package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage library folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a folder and grant the library access to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			folder, err := a.Folders().AddFolder(ctx, path, filepath.Base(path), true)
			if err != nil {
				return err
			}
			cmd.Printf("added folder %s\n", folder.Path)
			return nil
		})
	},
}

var folderRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a folder from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := a.Folders().RemoveFolder(path); err != nil {
				return err
			}
			cmd.Printf("removed folder %s\n", path)
			return nil
		})
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered folders and their access state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			folders := a.Store().Folders()
			if len(folders) == 0 {
				cmd.Println("no folders registered")
				return nil
			}
			for _, f := range folders {
				state := "ok"
				switch {
				case f.IsLegacy():
					state = "legacy"
				case f.NeedsPermissionVerification:
					state = "needs verification"
				case !f.HasValidCapability:
					state = "no access"
				}
				cmd.Printf("%s\t%s\t[%s]\n", f.Name, f.Path, state)
			}
			return nil
		})
	},
}

var folderVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Re-validate access to a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := a.Verify(ctx, path, true); err != nil {
				return fmt.Errorf("verification failed for %s: %w", path, err)
			}
			cmd.Printf("access to %s confirmed\n", path)
			return nil
		})
	},
}

func init() {
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderRemoveCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderVerifyCmd)
	rootCmd.AddCommand(folderCmd)
}
