package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/uicraft/uicraft/config"
	"github.com/uicraft/uicraft/internal/generate"
	"github.com/uicraft/uicraft/internal/service"
	"github.com/uicraft/uicraft/internal/store"
	v1 "github.com/uicraft/uicraft/internal/transport/http/v1"
	"github.com/uicraft/uicraft/internal/upload"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting uicraft session service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Generation backend: %s", cfg.GenerateURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize generation client
	generator := generate.NewGenerator(cfg.GenerateURL, cfg.GenerateAPIKey, cfg.GenerateModel, cfg.GenerateTimeout)

	// Initialize image storage
	uploads, err := upload.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize service
	svc := service.New(db, generator)

	// Initialize handler
	h := v1.NewHandler(svc, uploads)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)
	server.Static("/uploads", cfg.UploadDir)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Session service stopped")
}
