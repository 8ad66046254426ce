package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"auctiondesk-api/internal/cache"
	"auctiondesk-api/internal/config"
	"auctiondesk-api/internal/fetch"
	"auctiondesk-api/internal/handler"
	"auctiondesk-api/internal/repository"
	"auctiondesk-api/internal/router"
	"auctiondesk-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting AuctionDesk API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize listing repository based on config
	var listingRepo repository.ListingRepository
	switch cfg.ListingDB.Type {
	case "mongodb", "mongo":
		mongoRepo, err := repository.NewMongoListingRepository(
			cfg.ListingDB.MongoURI,
			cfg.ListingDB.MongoDatabase,
			cfg.ListingDB.MongoCollection,
		)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer mongoRepo.Close()
		listingRepo = mongoRepo
		log.Println("MongoDB listing repository initialized")
	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresListingRepository(cfg.ListingDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer pgRepo.Close()
		listingRepo = pgRepo
		log.Println("PostgreSQL listing repository initialized")
	case "mysql":
		myRepo, err := repository.NewMySQLListingRepository(cfg.ListingDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		defer myRepo.Close()
		listingRepo = myRepo
		log.Println("MySQL listing repository initialized")
	default: // sqlite
		sqliteRepo, err := repository.NewSQLiteListingRepository(cfg.ListingDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		defer sqliteRepo.Close()
		listingRepo = sqliteRepo
		log.Println("SQLite listing repository initialized")
	}

	// Initialize the relay page cache
	var pageCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable, falling back to memory: %v", err)
			pageCache = cache.NewMemoryCache()
		} else {
			pageCache = redisCache
			log.Println("Redis page cache initialized")
		}
	} else {
		pageCache = cache.NewMemoryCache()
		log.Println("Memory page cache initialized")
	}
	defer pageCache.Close()

	// Initialize services
	fetcher := fetch.New(cfg.Ingest.FetchTimeout, pageCache, cfg.Cache.TTL)
	listingService := service.NewListingService(listingRepo)
	ingestService := service.NewIngestService(listingService, fetcher, cfg.Ingest.HostFilter)

	// Snapshot the remote collection into the mirror before serving
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
	count, err := listingService.Snapshot(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load listing snapshot: %v", err)
	}
	log.Printf("Mirrored %d listings from store", count)

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version, listingService)
	listingHandler := handler.NewListingHandler(listingService, ingestService)
	relayHandler := handler.NewRelayHandler(fetcher)

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		ListingHandler: listingHandler,
		RelayHandler:   relayHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
