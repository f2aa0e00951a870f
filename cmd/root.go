package cmd

import (
	"fmt"
	"os"

	"trackcatalog/config"
	"trackcatalog/logger"
	"trackcatalog/server"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Music catalog API serving published track groups.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(loadConfig())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// loadConfig reads configuration and initializes logging from it.
func loadConfig() *config.Config {
	cfg := config.Load(envFile)
	if err := logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
	}
	return cfg
}

// Execute executes the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
