package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pricetracker/config"
	"pricetracker/internal/observability"
	"pricetracker/internal/repository/sqlite"
	"pricetracker/internal/scraper"
	"pricetracker/logger"
	"pricetracker/services/cache"
	"pricetracker/services/notifier"
	"pricetracker/services/publisher"
	"pricetracker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("crawl_interval", cfg.CrawlInterval).
		Int("worker_count", cfg.WorkerCount).
		Msg("Starting application")

	observability.Start(cfg.MetricsPort)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Assemble the extraction pipeline
	fetcher := scraper.NewFetcher(services.Cache, scraper.NewHostLimiter(cfg.HostMinInterval))
	pipeline := scraper.NewPipeline(fetcher, scraper.FetchOptions{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		UseCache:   true,
		CacheTTL:   cfg.CacheTTL,
	})

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		pipeline,
		services.History,
		services.Notifier,
		services.Publisher,
		cfg.TargetsPath,
		cfg.CrawlInterval,
		cfg.WorkerCount,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting price tracking worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.Store
	Publisher publisher.Publisher
	History   *sqlite.Repository
	Notifier  notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.History != nil {
		s.History.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache store
	switch cfg.CacheBackend {
	case config.CacheBackendMemcache:
		services.Cache = cache.NewMemcacheStore(cfg.MemcacheAddr)
		logger.Info("Using memcache page cache at %s", cfg.MemcacheAddr)
	default:
		fileStore, err := cache.NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file cache: %w", err)
		}
		services.Cache = fileStore
		logger.Info("Using file page cache at %s", cfg.CacheDir)
	}

	// Initialize result publisher
	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Publishing results to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Initialize price history repository
	history, err := sqlite.NewRepository(ctx, cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open price history: %w", err)
	}
	services.History = history
	logger.Info("Recording price history at %s", cfg.HistoryPath)

	// Initialize alert notifier
	emailNotifier := notifier.NewEmailNotifier(notifier.SMTPConfig{
		Server:   cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		To:       cfg.EmailTo,
	})
	if !emailNotifier.Enabled() {
		logger.Warn("Email configuration incomplete, price alerts disabled")
	}
	services.Notifier = emailNotifier

	return services, nil
}
