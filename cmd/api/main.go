package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cookbook-app/backend/config"
	"github.com/cookbook-app/backend/internal/api"
	"github.com/cookbook-app/backend/internal/database"
	"github.com/cookbook-app/backend/internal/server"
	"github.com/cookbook-app/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Rate limiting is best effort: a missing Redis only disables it.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	var images service.ImageStore
	if s3Config, err := config.NewS3Config(context.Background()); err == nil {
		images = service.NewS3ImageStore(s3Config)
	} else {
		log.Printf("S3 unavailable, storing images locally: %v", err)
		images = service.NewLocalImageStore(cfg.MediaDir, cfg.MediaURL)
	}

	srv := server.New(cfg.ServerHost+":"+cfg.ServerPort, api.Dependencies{
		DB:        db,
		Redis:     redisClient,
		Images:    images,
		JWTSecret: cfg.JWTSecret,
		Limits: service.RecipeLimits{
			MinCookingTime:      cfg.MinCookingTime,
			MaxCookingTime:      cfg.MaxCookingTime,
			MinIngredientAmount: cfg.MinIngredientAmount,
		},
	})

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
