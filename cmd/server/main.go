package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/auth"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/bookmark"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/enrollment"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/gateway"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/material"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/notification"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/report"
	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

func main() {
	log.Println("INFO: Starting API Server...")

	// 1. Load Configuration
	shared.LoadEnv(".env")
	cfg, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Connect to MongoDB and bootstrap indexes
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer func() {
		if err := shared.DisconnectMongoDB(client); err != nil {
			log.Printf("WARN: %v", err)
		}
	}()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer indexCancel()
	if err := shared.EnsureIndexes(indexCtx, db); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 3. Initialize Services
	svcs := &gateway.Services{
		Auth:         auth.NewService(db, cfg),
		Material:     material.NewService(db),
		Bookmark:     bookmark.NewService(db),
		Enrollment:   enrollment.NewService(db),
		Notification: notification.NewService(db),
		Report:       report.NewService(db),
	}

	// 4. Setup Routes and Middleware
	router := gateway.SetupRoutes(cfg, svcs)

	// 5. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Forced shutdown: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
