package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tasknest/utils"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

// Selection is the backend picked at startup together with what is needed
// to open it.
type Selection struct {
	Backend     Backend
	DatabaseURL string
	SQLitePath  string
}

// Ephemeral reports whether data will be lost when the process exits.
func (s Selection) Ephemeral() bool {
	return s.Backend == BackendMemory
}

// Resolve picks a backend in fixed priority order: a forced backend, then
// DATABASE_URL, then an existing SQLite file, then memory.
func Resolve(cfg utils.Config) (Selection, error) {
	switch Backend(cfg.ForceBackend) {
	case "":
	case BackendMemory:
		return Selection{Backend: BackendMemory}, nil
	case BackendSQLite:
		return Selection{Backend: BackendSQLite, SQLitePath: cfg.SQLitePath}, nil
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Selection{}, errors.New("FORCE_BACKEND=postgres requires DATABASE_URL")
		}
		return Selection{Backend: BackendPostgres, DatabaseURL: cfg.DatabaseURL}, nil
	default:
		return Selection{}, fmt.Errorf("unknown FORCE_BACKEND %q", cfg.ForceBackend)
	}

	if cfg.DatabaseURL != "" {
		return Selection{Backend: BackendPostgres, DatabaseURL: cfg.DatabaseURL}, nil
	}
	if info, err := os.Stat(cfg.SQLitePath); err == nil && !info.IsDir() {
		return Selection{Backend: BackendSQLite, SQLitePath: cfg.SQLitePath}, nil
	}
	return Selection{Backend: BackendMemory}, nil
}

// Open connects to the selected backend and prepares its schema. A backend
// that cannot be reached is an error; there is no fallback to the next tier.
func Open(ctx context.Context, sel Selection) (TaskStore, error) {
	switch sel.Backend {
	case BackendPostgres:
		pool, err := utils.OpenDB(ctx, sel.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		st, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return st, nil
	case BackendSQLite:
		return OpenSQLite(ctx, sel.SQLitePath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", sel.Backend)
	}
}
