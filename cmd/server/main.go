package main

import (
	"fmt"
	"log"
	"os"

	"github.com/storeport/backend/config"
	httpDelivery "github.com/storeport/backend/internal/delivery/http"
	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/infrastructure/site"
	"github.com/storeport/backend/internal/infrastructure/store"
	"github.com/storeport/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting StorePort Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store Type: %s", cfg.Store.Type)

	// Initialize infrastructure dependencies
	var productStore domain.ProductStore
	switch cfg.Store.Type {
	case "sqlite":
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open store database: %v", err)
		}
		productStore, err = store.NewSQLiteStore(db, cfg.Store.TTL)
		if err != nil {
			log.Fatalf("Failed to initialize sqlite store: %v", err)
		}
		log.Printf("Store: sqlite at %s (TTL %s)", cfg.Store.Path, cfg.Store.TTL)
	default:
		productStore = store.NewMemoryStore(cfg.Store.TTL)
		log.Printf("Store: in-memory (TTL %s)", cfg.Store.TTL)
	}

	siteClient := site.NewClient(site.Config{
		BaseURL:           cfg.Site.BaseURL,
		UserAgent:         cfg.Site.UserAgent,
		Timeout:           cfg.Site.RequestTimeout,
		MaxRetries:        cfg.Site.MaxRetries,
		RequestsPerMinute: cfg.Site.RequestsPerMinute,
	})
	log.Printf("Site: %s (%d req/min, %d retries)",
		cfg.Site.BaseURL, cfg.Site.RequestsPerMinute, cfg.Site.MaxRetries)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		siteClient.SetDebug(true)
		log.Printf("Site client debug mode enabled")
	}

	// Initialize usecase layer
	extractor := usecase.NewExtractService(usecase.ExtractConfig{
		KeepTrailingImage:  cfg.Export.KeepTrailingImage,
		EnableDebugLogging: debug,
	})
	classifier := usecase.NewCategoryClassifier(nil)
	classifier.SetDebug(debug)
	serializer := usecase.NewCsvSerializer(cfg.Export.Vendor)

	exportService := usecase.NewExportService(productStore, siteClient, extractor, classifier, serializer)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(exportService)

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
