package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connect-service/internal/config"
	"connect-service/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env
	if err := godotenv.Load(); err != nil {
		log.Println("Connect: No .env file found, relying on system env vars")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	srv := server.NewServer(cfg)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.StartHTTP(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down connect service...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.HTTP.Shutdown(ctx); err != nil {
			log.Printf("Failed to shutdown HTTP server: %v", err)
		}
		srv.Close()

	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	}
}
