package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	Port      string
	APIDomain string // Public base URL, e.g. "http://localhost:8080"

	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBLogLevel   string // silent, error, warn, info
	DBMaxIdle    int
	DBMaxOpen    int
	DBMaxConnAge time.Duration

	// Redis is optional; an empty host disables the listing cache.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	ListingCacheTTL    time.Duration
	TrackGroupTieBreak string // id_desc, id_asc, none

	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer for %s=%q, using default %d", key, value, fallback)
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("30s", "2m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s=%q, using default %s", key, value, fallback)
	}
	return fallback
}

// Load loads configuration from the environment, reading envFiles first
// (".env" when none are given). godotenv never overrides variables that
// are already set.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Port:      port,
		APIDomain: getEnv("API_DOMAIN", "http://localhost:"+port),

		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "root"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "catalog"),
		DBLogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		DBMaxIdle:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpen:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxConnAge: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ListingCacheTTL:    getEnvDuration("LISTING_CACHE_TTL", 30*time.Second),
		TrackGroupTieBreak: getEnv("TRACK_GROUP_TIE_BREAK", "id_desc"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// CacheEnabled reports whether a Redis host was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisHost != ""
}
