package cmd

import (
	"trackcatalog/cache"
	"trackcatalog/db"
	"trackcatalog/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gdb, err := db.ConnectMySQL(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		// Migrations may rewrite listing rows through raw statements.
		_, cleanup, err := cache.Attach(cmd.Context(), cfg, gdb)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := db.AutoMigrate(cmd.Context(), gdb); err != nil {
			return err
		}
		logger.Info("Models migrated successfully", logger.String("database", cfg.DBName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
