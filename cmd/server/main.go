package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/nonprofit-site/internal/api"
	"github.com/dom/nonprofit-site/internal/api/middleware"
	"github.com/dom/nonprofit-site/internal/config"
	"github.com/dom/nonprofit-site/internal/notify"
	"github.com/dom/nonprofit-site/internal/repository/postgres"
	"github.com/dom/nonprofit-site/internal/service"
	"github.com/dom/nonprofit-site/internal/websocket"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, logLevel)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Contact notifications are optional
	var notifier service.ContactNotifier
	if cfg.RabbitMQURL != "" {
		notifier = notify.NewAMQPNotifier(cfg.RabbitMQURL, cfg.ContactQueue)
		log.Printf("Contact notifications enabled (queue %s)", cfg.ContactQueue)
	}

	// Rate limiting is optional
	var limiter *middleware.RateLimiter
	if rdb := cfg.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)
		log.Printf("Rate limiting enabled (%d requests per %s)", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	// Initialize services
	services := service.NewServices(repos, cfg, hub, notifier)

	// Initialize router
	router := api.NewRouter(services, hub, limiter, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
