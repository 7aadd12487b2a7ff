package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sheetchart/internal/config"
	"sheetchart/internal/container"
	"sheetchart/ui"

	"github.com/joho/godotenv"
)

//go:embed ui/templates ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	sessions := appContainer.InitSessions()

	server, err := ui.NewServer(appConfig, sessions, embeddedFiles, appContainer.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer.Logger.Info("Starting SheetChart on port %s", appConfig.Server.Port)
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
