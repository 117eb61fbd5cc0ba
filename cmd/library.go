package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadenzaapp/cadenza/internal/app"
	"github.com/cadenzaapp/cadenza/internal/domain"
)

var searchLimit int

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List all tracks in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			printTracks(cmd, a.Store().Tracks())
			return nil
		})
	},
}

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			for _, al := range a.Store().Albums() {
				cmd.Printf("%s - %s (%d tracks)\n", al.Title, al.Artist, len(al.TrackIDs))
			}
			return nil
		})
	},
}

var artistsCmd = &cobra.Command{
	Use:   "artists",
	Short: "List artists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			for _, ar := range a.Store().Artists() {
				cmd.Printf("%s (%d albums)\n", ar.Name, len(ar.Albums))
			}
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tracks by title, artist, album or genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			printTracks(cmd, a.Search(strings.Join(args, " "), searchLimit))
			return nil
		})
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently added tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			printTracks(cmd, a.Store().RecentlyAdded(searchLimit))
			return nil
		})
	},
}

var mostPlayedCmd = &cobra.Command{
	Use:   "most-played",
	Short: "List most played tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			for _, t := range a.Store().MostPlayed(searchLimit) {
				cmd.Printf("%4d  %s - %s\n", t.PlayCount, t.Title, t.Artist)
			}
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every track, album, artist and playlist from the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			a.ClearLibrary()
			cmd.Println("library cleared")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library and scan status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.Application) error {
			s := a.Store()
			session := s.Session()
			cmd.Printf("tracks:    %d\n", len(s.Tracks()))
			cmd.Printf("albums:    %d\n", len(s.Albums()))
			cmd.Printf("artists:   %d\n", len(s.Artists()))
			cmd.Printf("folders:   %d\n", len(s.Folders()))
			cmd.Printf("playlists: %d\n", len(s.Playlists()))
			cmd.Printf("scan:      %s\n", session.Phase)
			if !session.LastScanDate.IsZero() {
				cmd.Printf("last scan: %s\n", session.LastScanDate.Format(time.RFC1123))
			}
			return nil
		})
	},
}

func printTracks(cmd *cobra.Command, tracks []domain.Track) {
	if len(tracks) == 0 {
		cmd.Println("no tracks")
		return
	}
	for _, t := range tracks {
		cmd.Printf("%s - %s [%s]\n", t.Title, t.Artist, t.Album)
	}
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 25, "maximum results")
	recentCmd.Flags().IntVar(&searchLimit, "limit", 25, "maximum results")
	mostPlayedCmd.Flags().IntVar(&searchLimit, "limit", 25, "maximum results")
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(artistsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(mostPlayedCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statusCmd)
}
