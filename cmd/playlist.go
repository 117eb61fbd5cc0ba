package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
	"github.com/cadenzaapp/cadenza/internal/domain"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage playlists",
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			p := a.Store().CreatePlaylist(args[0], "")
			cmd.Printf("created playlist %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			for _, p := range a.Store().Playlists() {
				cmd.Printf("%s\t%s\t(%d tracks)\n", p.ID, p.Name, len(p.TrackIDs))
			}
			return nil
		})
	},
}

var playlistRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			if _, ok := a.Store().State().PlaylistByID(args[0]); !ok {
				return domain.ErrPlaylistNotFound
			}
			a.Store().Dispatch(domain.RenamePlaylistAction{ID: args[0], Name: args[1]})
			cmd.Printf("renamed playlist %s\n", args[0])
			return nil
		})
	},
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			if _, ok := a.Store().State().PlaylistByID(args[0]); !ok {
				return domain.ErrPlaylistNotFound
			}
			a.Store().Dispatch(domain.DeletePlaylistAction{ID: args[0]})
			cmd.Printf("deleted playlist %s\n", args[0])
			return nil
		})
	},
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <playlist-id> <track-id>",
	Short: "Add a track to a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			if err := a.Store().AddToPlaylist(args[0], args[1]); err != nil {
				return err
			}
			cmd.Println("track added")
			return nil
		})
	},
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <playlist-id> <track-id>",
	Short: "Remove a track from a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			if err := a.Store().RemoveFromPlaylist(args[0], args[1]); err != nil {
				return err
			}
			cmd.Println("track removed")
			return nil
		})
	},
}

func init() {
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistRenameCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistAddCmd)
	playlistCmd.AddCommand(playlistRemoveCmd)
	rootCmd.AddCommand(playlistCmd)
}
