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

	"littlesteps-backend/internal/config"
	"littlesteps-backend/internal/database"
	"littlesteps-backend/internal/handlers"
	"littlesteps-backend/internal/middleware"
	"littlesteps-backend/internal/repository"
	"littlesteps-backend/internal/router"
	"littlesteps-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting LittleSteps Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	sessionRepo := repository.NewSessionRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)
	learnerRepo := repository.NewLearnerRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)
	classRepo := repository.NewClassRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionService := services.NewSessionService(sessionRepo, learnerRepo)
	progressService := services.NewProgressService(progressRepo, activityRepo, learnerRepo, classRepo, sessionService)
	statsService := services.NewStatsService(progressRepo, activityRepo, learnerRepo, sessionService)
	presenceService := services.NewPresenceService(
		sessionRepo,
		learnerRepo,
		redisClient,
		cfg.PresenceWindowSize,
		time.Duration(cfg.PresenceCacheTTLSeconds)*time.Second,
	)

	// ──── Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(sessionService)
	progressHandler := handlers.NewProgressHandler(progressService)
	statsHandler := handlers.NewStatsHandler(statsService)
	presenceHandler := handlers.NewPresenceHandler(presenceService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		sessionHandler,
		progressHandler,
		statsHandler,
		presenceHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LittleSteps Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
