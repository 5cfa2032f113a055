// Package backend selects the persistence implementation from config.
package backend

import (
	"fmt"
	"log/slog"

	"profesorhub/internal/config"
	"profesorhub/internal/store"
	"profesorhub/internal/store/memory"
	"profesorhub/internal/store/sqlite"
)

// New returns the Store named by cfg.DataBackend.
func New(cfg *config.Config) (store.Store, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("create sqlite backend: %w", err)
		}
		slog.Info("Using sqlite backend", "path", cfg.SQLiteDBPath)
		return repo, nil
	case "memory":
		slog.Warn("Using in-memory backend, data will not survive restarts")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
