package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"customer-map/internal/config"
	"customer-map/internal/db"
	customerrepo "customer-map/internal/repository/customer"
	"customer-map/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.FromEnv()
	ctx := context.Background()

	var repo customerrepo.Repository
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Fatalf("seeding the memory store is pointless: records die with this process")
	case config.DriverFile:
		repo = customerrepo.NewFile(cfg.StorePath, logger)
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()
		repo = customerrepo.NewPostgres(pool, logger)
	default:
		logger.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	count, err := seed.Apply(ctx, repo)
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}
	if count == 0 {
		fmt.Println("store already has customers, nothing seeded")
		return
	}
	fmt.Printf("seeded %d demo customers\n", count)
}
