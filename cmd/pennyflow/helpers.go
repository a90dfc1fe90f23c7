package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/config"
	"github.com/dhruvkb/pennyflow/internal/engine"
	"github.com/dhruvkb/pennyflow/internal/goal"
	"github.com/dhruvkb/pennyflow/internal/registry"
	"github.com/dhruvkb/pennyflow/internal/settings"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// app wires the full service graph over one open store.
type app struct {
	store    *store.SQLiteStore
	bus      *bus.Bus
	registry *registry.Registry
	engine   *engine.Engine
	goals    *goal.Tracker
	settings *settings.Settings
}

func initApp(ctx context.Context) (*app, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "pennyflow", "pennyflow.db")
	}
	expanded := config.ExpandPath(dbPath)

	s, err := store.NewSQLiteStore(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	slog.Debug("store ready", "path", expanded)

	b := bus.New()
	r := registry.New(s, b)
	return &app{
		store:    s,
		bus:      b,
		registry: r,
		engine:   engine.New(s, b, r),
		goals:    goal.New(s, b),
		settings: settings.New(s, b),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}
