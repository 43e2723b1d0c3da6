package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ames-casefile/internal/api"
	"ames-casefile/internal/config"
	"ames-casefile/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	cfg := config.Default()
	if path := os.Getenv("CASEFILE_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
		cfg = loaded
		log.Printf("Loaded config from %s", path)
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := data.NewCaseCache(cfg.Server.CacheTTL)
	if cfg.Server.CacheTTL > 0 {
		go cache.RunCleanup(ctx, cfg.Server.CacheTTL/4)
		log.Printf("Case cache TTL: %s", cfg.Server.CacheTTL)
	}

	router := api.NewRouter(cfg, cache)

	// Start server
	addr := fmt.Sprintf(":%s", port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		log.Printf("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting API server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
