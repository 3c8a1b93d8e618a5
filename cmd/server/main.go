// Package main provides the VSOP87 positions HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"go.ngs.io/vsop87/internal/adapter/store/catalog"
	"go.ngs.io/vsop87/internal/config"
	httpHandler "go.ngs.io/vsop87/internal/http"
	"go.ngs.io/vsop87/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	cfgFile := flag.String("config", "", "Config file (default .vsop.yaml)")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("vsop87-api version %s\n", version)
		return
	}

	// Load configuration from file and environment.
	if err := config.Init(viper.GetViper(), *cfgFile); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Starting VSOP87 API server...")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Data directory: %s", cfg.DataDir)

	// Initialize model catalog.
	models := catalog.New(cfg.DataDir)
	infos, err := models.ListModels()
	if err != nil {
		log.Fatalf("Failed to scan data directory: %v", err)
	}
	log.Printf("Found %d model files", len(infos))

	if cfg.Watch {
		if err := models.Watch(); err != nil {
			log.Printf("Warning: model reload disabled: %v", err)
		} else {
			log.Printf("Watching %s for model changes", cfg.DataDir)
			defer func() { _ = models.Close() }()
		}
	}

	// Initialize use case.
	positionUC := usecase.NewPositionUseCase(models)

	// Setup router.
	router := httpHandler.SetupRouter(positionUC, cfg.CORSAllowedOrigins)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/positions")
	log.Printf("  - GET /v1/models")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("VSOP87 API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  vsop87-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config FILE   Config file (default .vsop.yaml in the working directory)")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  VSOP_PORT                   Server port (default: 8080)")
	fmt.Println("  VSOP_DATA_DIR               Directory of VSOP87 and compact model files (default: ./data)")
	fmt.Println("  VSOP_WATCH                  Reload models when files change (default: true)")
	fmt.Println("  VSOP_CORS_ALLOWED_ORIGINS   Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  vsop87-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port")
	fmt.Println("  VSOP_PORT=3000 vsop87-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                 Health check")
	fmt.Println("  GET /v1/models              List model files")
	fmt.Println("  GET /v1/positions           Get positions (body, version, start, end, interval, velocity)")
	fmt.Println()
}
