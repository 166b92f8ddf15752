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

	"timecapsule-backend/internal/api"
	"timecapsule-backend/internal/auth"
	"timecapsule-backend/internal/config"
	"timecapsule-backend/internal/repository"
	"timecapsule-backend/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env before reading the configuration. In production the
	// variables may come straight from the environment instead.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v (using existing environment variables)", err)
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	store, err := repository.NewPostgresStore(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer store.Close()

	migrationSQL, err := os.ReadFile("./migrations/001_init.sql")
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	if err := store.RunMigrations(initCtx, string(migrationSQL)); err != nil {
		log.Printf("Warning while running migrations: %v (continuing)", err)
	} else {
		log.Println("Database migrations applied successfully.")
	}

	tokenService, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to start TokenService: %v", err)
	}

	userService := service.NewUserService(store, tokenService)
	capsuleService := service.NewCapsuleService(store)

	handler := api.NewHandler(userService, capsuleService, tokenService)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server started on http://localhost:%d", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error during graceful shutdown: %v", err)
	}
	log.Println("Server stopped.")
}
