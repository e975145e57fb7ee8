package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"portal/internal/config"
	"portal/internal/database"
	"portal/internal/domain/auth"
	"portal/internal/domain/room"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var catalogPath string
	var databaseURL string
	var dryRun bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&catalogPath, "file", "f", "seed/catalog.yaml", "path to the YAML catalog of rooms and users")
	flagSet.StringVar(&databaseURL, "database-url", "", "override DATABASE_URL")
	flagSet.BoolVar(&dryRun, "dry-run", false, "validate the catalog without touching the database")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	f, err := os.Open(catalogPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, err := parseCatalog(f)
	if err != nil {
		return err
	}
	log.Printf("catalog loaded: file=%s rooms=%d users=%d", catalogPath, len(cat.Rooms), len(cat.Users))
	if dryRun {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	db, err := database.Connect(cfg.DatabaseURL, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := apply(ctx, cat, room.NewRepository(db), auth.NewUserRepository(db))
	if err != nil {
		return err
	}
	log.Printf("seed completed: rooms_created=%d rooms_updated=%d users=%d", res.RoomsCreated, res.RoomsUpdated, res.Users)
	return nil
}
