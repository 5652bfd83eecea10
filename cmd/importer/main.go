package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"customer-map/internal/config"
	"customer-map/internal/db"
	"customer-map/internal/importer"
	customerrepo "customer-map/internal/repository/customer"
	customersvc "customer-map/internal/service/customer"
	"customer-map/internal/service/geocode"
	"github.com/joho/godotenv"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to customer CSV export (name,street,number,phone,description,lat,lng)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.FromEnv()
	ctx := context.Background()

	var repo customerrepo.Repository
	switch cfg.StoreDriver {
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
		logger.Fatalf("importing into store driver %q makes no sense; use file or postgres", cfg.StoreDriver)
	}

	geocoder := geocode.NewClient(http.DefaultClient, cfg.GeocodeBaseURL, cfg.GeocodeLocality, cfg.GeocodeAgent)
	svc := customersvc.New(repo, geocoder)

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, svc, logger)

	start := time.Now()
	imported, skipped, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d rows: %v", imported, err)
	}

	fmt.Printf("Imported %d customers (%d skipped) in %s\n", imported, skipped, time.Since(start).Truncate(time.Millisecond))
}
