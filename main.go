package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"form283/cmd"
	"form283/internal/config"
	"form283/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration. The validate command works offline, so a missing
	// API key only downgrades to the default logger config here.
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Info().Msg("Starting form283 CLI")

	cmd.Execute()

	log.Info().Msg("form283 CLI shutdown")
	os.Exit(0)
}
