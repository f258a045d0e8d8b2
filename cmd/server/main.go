package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/trolleywatch/backend/config"
	httpDelivery "github.com/trolleywatch/backend/internal/delivery/http"
	"github.com/trolleywatch/backend/internal/infrastructure/cache"
	"github.com/trolleywatch/backend/internal/infrastructure/grocer"
	"github.com/trolleywatch/backend/internal/usecase"
)

func main() {
	// Load .env if present; real config comes from viper
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting TrolleyWatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// The cache is constructed once here and owned by the client; it holds
	// no external resources, so there is no teardown.
	memoryCache := cache.NewMemoryCache()

	client := grocer.NewClient(grocer.ClientConfig{
		APIKey:            cfg.Upstream.APIKey,
		Timeout:           cfg.Upstream.Timeout,
		CacheTTL:          cfg.Cache.TTL,
		RequestsPerSecond: cfg.RateLimit.Upstream,
		Burst:             cfg.RateLimit.Burst,
	}, memoryCache)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Search client debug mode enabled")
	}

	if cfg.Upstream.APIKey != "" {
		log.Printf("Upstream API key configured (%s...)", cfg.Upstream.APIKey[:min(8, len(cfg.Upstream.APIKey))])
	} else {
		log.Printf("WARNING: upstream API key NOT CONFIGURED - provider searches will fail!")
	}

	// Initialize usecase layer
	compareService := usecase.NewCompareService(client, usecase.CompareServiceConfig{
		Page:     cfg.Search.Page,
		PageSize: cfg.Search.PageSize,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(compareService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
