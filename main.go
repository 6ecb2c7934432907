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

	"github.com/saiinfotech/catalog-be/internal/api"
	"github.com/saiinfotech/catalog-be/internal/auth"
	"github.com/saiinfotech/catalog-be/internal/config"
	"github.com/saiinfotech/catalog-be/internal/database"
	"github.com/saiinfotech/catalog-be/internal/images"
	"github.com/saiinfotech/catalog-be/internal/logger"
	"github.com/saiinfotech/catalog-be/internal/monitoring"
	"github.com/saiinfotech/catalog-be/internal/services"
	"github.com/saiinfotech/catalog-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up token signing
	tokens, err := auth.New(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	// Set up the image relay
	uploader, err := images.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	if err != nil {
		log.Fatalf("Failed to initialize image uploader: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, hub)
	productService := services.NewProductService(db)

	// Set up and run the background stats broadcaster
	statsBroadcaster := monitoring.NewStatsBroadcaster(productService, hub)
	go statsBroadcaster.Run()

	// Set up and run the audit event pruner
	pruner, err := monitoring.NewEventPruner(eventService, cfg.EventRetentionCron, cfg.EventRetentionDays)
	if err != nil {
		log.Fatalf("Failed to initialize event pruner: %v", err)
	}
	go pruner.Run()

	// Set up router
	router := api.NewRouter(tokens, userService, productService, eventService, uploader, hub, cfg.AdminUsername, cfg.AdminPassword)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	statsBroadcaster.Stop()
	pruner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
