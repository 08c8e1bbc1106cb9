package wal

import (
	"context"
	"fmt"
	"path/filepath"

	"tm/infra/wal/kvlog"
	"tm/infra/wal/sqllog"
	"tm/infra/wal/textlog"
)

const (
	BackendText   = "text"
	BackendPebble = "pebble"
	BackendSQLite = "sqlite"
)

// Backends lists the supported storage backends.
var Backends = []string{BackendText, BackendPebble, BackendSQLite}

// Config selects and configures a log backend.
type Config struct {
	Backend string
	// Path is the log file for text, the database directory for pebble and
	// the database file for sqlite.
	Path string
	Sync bool
}

// Log is the append-only task log. Lines come back from ReadAll in the
// order they were appended; each call starts from the first line.
type Log interface {
	Append(ctx context.Context, line string) error
	ReadAll(ctx context.Context, fn func(line string) error) error
	Close() error
}

// New opens the configured backend, filling in default paths.
func New(cfg Config) (Log, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendText
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath(cfg.Backend)
	}

	var (
		l   Log
		err error
	)
	switch cfg.Backend {
	case BackendText:
		l, err = textlog.Open(textlog.Config{Path: cfg.Path, Sync: cfg.Sync})
	case BackendPebble:
		l, err = kvlog.Open(kvlog.Config{Dir: cfg.Path, Sync: cfg.Sync})
	case BackendSQLite:
		l, err = sqllog.Open(sqllog.Config{Path: cfg.Path, Sync: cfg.Sync})
	default:
		return nil, fmt.Errorf("create wal: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("create wal: %w", err)
	}
	return l, nil
}

// DefaultPath returns the working-directory location used by a backend
// when no path is configured.
func DefaultPath(backend string) string {
	switch backend {
	case BackendPebble:
		return filepath.Join(".", "activityLog.pebble")
	case BackendSQLite:
		return filepath.Join(".", "activityLog.db")
	default:
		return textlog.DefaultPath
	}
}
