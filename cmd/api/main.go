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

	"customer-map/internal/config"
	"customer-map/internal/db"
	"customer-map/internal/httpserver"
	customerrepo "customer-map/internal/repository/customer"
	customersvc "customer-map/internal/service/customer"
	"customer-map/internal/service/geocode"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	repo, pool, err := buildRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init store (%s): %v", cfg.StoreDriver, err)
	}
	if pool != nil {
		defer pool.Close()
	}

	geocoder := geocode.NewClient(http.DefaultClient, cfg.GeocodeBaseURL, cfg.GeocodeLocality, cfg.GeocodeAgent)
	customerService := customersvc.New(repo, geocoder)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		CustomerSvc: customerService,
		Geocoder:    geocoder,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (store driver: %s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// buildRepository selects the customer store backend from config. The pool
// is non-nil only for the postgres driver.
func buildRepository(ctx context.Context, cfg config.Config, logger *log.Logger) (customerrepo.Repository, *pgxpool.Pool, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return customerrepo.NewMemory(), nil, nil
	case config.DriverFile:
		return customerrepo.NewFile(cfg.StorePath, logger), nil, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, err
		}
		return customerrepo.NewPostgres(pool, logger), pool, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
