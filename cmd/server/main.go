package main

import (
	"fmt"
	"log"
	"os"

	"github.com/warrantyhub/backend/config"
	httpDelivery "github.com/warrantyhub/backend/internal/delivery/http"
	"github.com/warrantyhub/backend/internal/domain"
	"github.com/warrantyhub/backend/internal/infrastructure/analytics"
	"github.com/warrantyhub/backend/internal/infrastructure/barcode"
	"github.com/warrantyhub/backend/internal/infrastructure/cache"
	"github.com/warrantyhub/backend/internal/infrastructure/vision"
	"github.com/warrantyhub/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting WarrantyHub Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s, TTL: %s", cfg.Cache.Type, cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)

	// Barcode sources in fixed priority order: best quality first
	barcodeLookup := barcode.NewBarcodeLookupClient(cfg.Providers.BarcodeLookup.APIKey, cfg.Providers.BarcodeLookup.BaseURL)
	upcItemDB := barcode.NewUPCItemDBClient(cfg.Providers.UPCItemDB.BaseURL)
	openFoodFacts := barcode.NewOpenFoodFactsClient(cfg.Providers.OpenFoodFacts.BaseURL)
	resolver := usecase.NewFallbackResolver(barcodeLookup, upcItemDB, openFoodFacts)
	log.Printf("Barcode sources: barcodelookup -> upcitemdb -> openfoodfacts")

	visionClient := vision.NewClient(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.Model)
	log.Printf("Vision provider: %s (model: %s, min confidence: %.2f)",
		cfg.Vision.BaseURL, cfg.Vision.Model, cfg.Vision.MinConfidence)

	var sink domain.AnalyticsSink
	if cfg.Analytics.Endpoint != "" {
		sink = analytics.NewHTTPSink(cfg.Analytics.Endpoint)
		log.Printf("Analytics sink: %s", cfg.Analytics.Endpoint)
	} else {
		sink = &analytics.NoopSink{}
		log.Printf("Analytics sink: disabled")
	}

	// Initialize usecase layer
	lookupService := usecase.NewLookupService(memoryCache, resolver, usecase.LookupServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})

	identifyService := usecase.NewIdentifyService(visionClient, sink, usecase.IdentifyServiceConfig{
		MinConfidence: cfg.Vision.MinConfidence,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(lookupService, identifyService)

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
