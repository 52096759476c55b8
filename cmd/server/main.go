package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"giftlist/internal/config"
	"giftlist/internal/docstore"
	"giftlist/internal/jobs"
	"giftlist/internal/metrics"
	"giftlist/internal/names"
	"giftlist/internal/server"
	"giftlist/internal/wishlist"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics.Init()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	registry := names.NewRegistry(cfg.FamilyNames)
	registry.SetEmails(cfg.FamilyEmails)
	service := wishlist.New(store, registry, nil)
	log.Printf("Serving %d family wishlists (%s store)", registry.Len(), cfg.StoreDriver)

	srv := server.New(cfg)
	srv.RegisterRoutes(store, service)

	// Background jobs
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	if cfg.LinkCheckInterval > 0 {
		checker := jobs.NewLinkChecker(store, cfg.LinkCheckInterval, nil)
		go checker.Start(jobsCtx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// openStore selects the configured store driver. Postgres runs its
// migrations before serving.
func openStore(cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, err := docstore.NewPostgresStore(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			store.Close()
			return nil, err
		}
		log.Println("Migrations completed successfully")
		return store, nil
	default:
		return docstore.NewMemoryStore(), nil
	}
}
