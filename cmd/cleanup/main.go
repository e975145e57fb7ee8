package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"portal/internal/config"
	"portal/internal/database"
	"portal/internal/domain/auth"
	"portal/internal/domain/reservation"
	"portal/internal/domain/room"
	"portal/internal/pkg/keylock"
)

type options struct {
	DatabaseURL string
	Retention   time.Duration
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, err := parseFlags(args, options{DatabaseURL: cfg.DatabaseURL, Retention: cfg.CancelledRetention})
	if err != nil {
		return err
	}

	db, err := database.Connect(opts.DatabaseURL, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := purge(ctx, db, opts.Retention)
	if err != nil {
		return err
	}
	log.Printf("cleanup completed: reservations_deleted=%d retention=%s", n, opts.Retention)
	return nil
}

// parseFlags applies command-line overrides on top of the configured defaults.
func parseFlags(args []string, defaults options) (options, error) {
	opts := defaults
	flagSet := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
	flagSet.DurationVar(&opts.Retention, "retention", defaults.Retention, "delete reservations cancelled longer ago than this")
	flagSet.StringVar(&opts.DatabaseURL, "database-url", defaults.DatabaseURL, "override DATABASE_URL")
	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Retention <= 0 {
		return options{}, fmt.Errorf("--retention must be > 0, got %s", opts.Retention)
	}
	if opts.DatabaseURL == "" {
		return options{}, errors.New("--database-url must not be empty")
	}
	return opts, nil
}

func purge(ctx context.Context, db *gorm.DB, retention time.Duration) (int64, error) {
	svc := reservation.NewService(
		reservation.NewRepository(db),
		room.NewRepository(db),
		auth.NewUserRepository(db),
		keylock.New(),
		nil,
	)
	n, err := svc.PurgeCancelled(ctx, retention)
	if err != nil {
		return 0, fmt.Errorf("purge cancelled reservations: %w", err)
	}
	return n, nil
}
