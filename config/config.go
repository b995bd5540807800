package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends
const (
	CacheBackendFile     = "file"
	CacheBackendMemcache = "memcache"
)

// Config represents the application configuration
type Config struct {
	// Target configuration
	TargetsPath string

	// Cache configuration
	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration
	MemcacheAddr string

	// Redis result stream configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// History storage
	HistoryPath string

	// Fetch configuration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	HostMinInterval time.Duration

	// Worker configuration
	CrawlInterval time.Duration
	WorkerCount   int

	// Metrics
	MetricsPort string

	// SMTP configuration for alerts
	SMTPServer   string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailTo      string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "3600"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	workerCount, _ := strconv.Atoi(getEnv("WORKER_COUNT", "4"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	retryBaseDelay, _ := strconv.Atoi(getEnv("RETRY_BASE_DELAY_SECONDS", "2"))
	hostMinInterval, _ := strconv.Atoi(getEnv("HOST_MIN_INTERVAL_SECONDS", "2"))

	return Config{
		TargetsPath:          getEnv("TARGETS_PATH", "data/products.json"),
		CacheBackend:         getEnv("CACHE_BACKEND", CacheBackendFile),
		CacheDir:             getEnv("CACHE_DIR", "cache"),
		CacheTTL:             time.Duration(cacheTTL) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "price_results"),
		RedisStreamMaxLength: streamMaxLength,
		HistoryPath:          getEnv("HISTORY_DB_PATH", "data/prices.db"),
		MaxRetries:           maxRetries,
		RetryBaseDelay:       time.Duration(retryBaseDelay) * time.Second,
		HostMinInterval:      time.Duration(hostMinInterval) * time.Second,
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		WorkerCount:          workerCount,
		MetricsPort:          getEnv("METRICS_PORT", "9090"),
		SMTPServer:           getEnv("SMTP_SERVER", ""),
		SMTPPort:             getEnv("SMTP_PORT", "587"),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFrom:            getEnv("EMAIL_FROM", ""),
		EmailTo:              getEnv("EMAIL_TO", ""),
		Environment:          getEnv("TRACKER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the tracker cannot run with
func (c Config) Validate() error {
	if c.TargetsPath == "" {
		return fmt.Errorf("targets path must not be empty")
	}
	if c.CacheBackend != CacheBackendFile && c.CacheBackend != CacheBackendMemcache {
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.WorkerCount)
	}
	if c.CrawlInterval <= 0 {
		return fmt.Errorf("crawl interval must be positive, got %s", c.CrawlInterval)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
