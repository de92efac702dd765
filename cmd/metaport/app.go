package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/config"
	"github.com/vmunix/metaport/internal/migrations"
	"github.com/vmunix/metaport/internal/progress"
)

// app bundles everything a command needs: config, logger, and the open
// catalog store. close must be called when the command finishes.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	catalog *catalog.Store
	db      *sql.DB
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// newApp loads config, opens the database, and applies migrations. The
// --config flag wins; otherwise the usual search paths are tried.
func newApp() (*app, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, fmt.Errorf("no config file found; run 'metaport config init' to create one")
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	for _, w := range cfg.Warnings() {
		logger.Warn("config", "warning", w)
	}

	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     logger,
		catalog: catalog.NewStore(db),
		db:      db,
	}, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runContext returns a context cancelled on SIGINT/SIGTERM so a long run
// can stop cleanly mid-flight.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watchProgress prints a progress line whenever the percentage moves.
// Returns a stop function that blocks until the watcher has drained.
func watchProgress(tracker *progress.Tracker) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		last := -1
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				st := tracker.Snapshot()
				if !st.Running || st.TotalItems == 0 || st.Percentage == last {
					continue
				}
				last = st.Percentage
				line := fmt.Sprintf("  %3d%% (%d/%d)", st.Percentage, st.ProcessedItems, st.TotalItems)
				if st.CurrentItem != "" {
					line += "  " + st.CurrentItem
				}
				if st.EstimatedTime != "" {
					line += "  ETA " + st.EstimatedTime
				}
				fmt.Println(line)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// printWarnings lists validation warnings under a heading.
func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println("\nWarnings:")
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}
}
