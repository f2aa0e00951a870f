package cmd

import (
	"context"
	"time"

	"trackcatalog/cache"
	"trackcatalog/db"
	"trackcatalog/fixtures"
	"trackcatalog/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedEmail string
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo user, artist and track groups",
	Long: `Insert demo data: three published albums with tracks, one draft and one
album without tracks. Only the first three show up in /v1/trackGroups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := loadConfig()
		gdb, err := db.ConnectMySQL(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		// Seeding writes the listing tables; a running server's cache
		// must see it.
		_, cleanup, err := cache.Attach(ctx, cfg, gdb)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := db.AutoMigrate(ctx, gdb); err != nil {
			return err
		}
		return seedDemo(ctx, gdb, seedEmail, seedReset)
	},
}

func seedDemo(ctx context.Context, gdb *gorm.DB, email string, reset bool) error {
	if reset {
		if err := fixtures.ClearTables(ctx, gdb); err != nil {
			return err
		}
		logger.Info("Cleared catalog tables")
	}

	user, err := fixtures.CreateUser(ctx, gdb, email)
	if err != nil {
		return err
	}
	artist, err := fixtures.CreateArtist(ctx, gdb, user.ID)
	if err != nil {
		return err
	}

	albums := [][]fixtures.TrackGroupOption{
		{fixtures.WithTitle("most recent"), fixtures.WithURLSlug("most-recent"), fixtures.WithReleaseDate(time.Date(2024, 11, 28, 12, 52, 8, 0, time.UTC))},
		{fixtures.WithTitle("middle"), fixtures.WithURLSlug("a-second-album"), fixtures.WithReleaseDate(time.Date(2023, 11, 28, 12, 52, 8, 0, time.UTC))},
		{fixtures.WithTitle("oldest"), fixtures.WithURLSlug("a-oldest-album"), fixtures.WithReleaseDate(time.Date(2022, 11, 28, 12, 52, 8, 0, time.UTC))},
		{fixtures.WithTitle("draft"), fixtures.WithURLSlug("draft"), fixtures.WithPublished(false)},
		{fixtures.WithTitle("no tracks yet"), fixtures.WithURLSlug("no-tracks-yet"), fixtures.WithTracks()},
	}
	for _, opts := range albums {
		tg, err := fixtures.CreateTrackGroup(ctx, gdb, artist.ID, opts...)
		if err != nil {
			return err
		}
		logger.Info("Seeded track group",
			logger.Uint("id", tg.ID),
			logger.String("title", tg.Title),
			logger.Bool("published", tg.Published),
			logger.Int("tracks", len(tg.Tracks)),
		)
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "demo@example.com", "email of the demo user")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "clear all catalog tables first")
	rootCmd.AddCommand(seedCmd)
}
