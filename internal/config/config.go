package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, read from the environment.
// Load .env in main (godotenv) before calling Load.
type Config struct {
	Port      string
	LogLevel  string
	LogFile   string
	JWTSecret string

	MongoURI string
	MongoDB  string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Feed knobs
	PageSizeMax      int           // pagination ceiling, requested limits are clamped to this
	TrendingMinUses  int           // a tag needs at least this many uses to trend
	TrendingTopTags  int           // how many trending tags feed the trending retriever
	ReelsMax         int           // hard cap on the reels feed
	RetrieverTimeout time.Duration // per feed build, covers all four candidate queries
	TrendingCacheTTL time.Duration // trending-tag cache expiry, 0 disables caching
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8686"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", "server.log"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "friendsnet"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PageSizeMax:      getEnvInt("FEED_PAGE_SIZE_MAX", 10),
		TrendingMinUses:  getEnvInt("FEED_TRENDING_MIN_USES", 5),
		TrendingTopTags:  getEnvInt("FEED_TRENDING_TOP_TAGS", 10),
		ReelsMax:         getEnvInt("REELS_MAX", 50),
		RetrieverTimeout: getEnvDuration("FEED_RETRIEVER_TIMEOUT", 5*time.Second),
		TrendingCacheTTL: getEnvDuration("FEED_TRENDING_CACHE_TTL", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
