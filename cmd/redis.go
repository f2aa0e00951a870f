package cmd

import (
	"fmt"

	"trackcatalog/cache"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the listing cache connection",
	Long:  `Connect to the Redis instance configured by REDIS_HOST and REDIS_PORT and report whether it answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if !cfg.CacheEnabled() {
			fmt.Println("REDIS_HOST is empty, the listing cache is disabled.")
			return nil
		}

		fmt.Printf("Redis: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)
		client, err := cache.ConnectRedis(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		fmt.Println("Redis connection OK.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
