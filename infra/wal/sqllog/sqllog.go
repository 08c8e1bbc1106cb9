// Package sqllog stores the task log in a SQLite table ordered by rowid.
package sqllog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS log_lines (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL
)`

type Config struct {
	Path string
	// Sync selects synchronous=FULL instead of NORMAL.
	Sync bool
}

type Log struct {
	db *sql.DB
}

func Open(cfg Config) (*Log, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqllog: path is required")
	}
	sync := "NORMAL"
	if cfg.Sync {
		sync = "FULL"
	}
	dsn := filepath.Clean(cfg.Path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(" + sync + ")"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqllog: open sqlite db: %w", err)
	}
	// single writer; one connection keeps the pragmas on every statement
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqllog: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqllog: create schema: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Append(ctx context.Context, line string) error {
	if _, err := l.db.ExecContext(ctx, `INSERT INTO log_lines (line) VALUES (?)`, line); err != nil {
		return fmt.Errorf("sqllog: append: %w", err)
	}
	return nil
}

func (l *Log) ReadAll(ctx context.Context, fn func(line string) error) error {
	rows, err := l.db.QueryContext(ctx, `SELECT line FROM log_lines ORDER BY seq ASC`)
	if err != nil {
		return fmt.Errorf("sqllog: query: %w", err)
	}
	defer rows.Close()

	// Collect first: fn may append, and the single connection is held by rows.
	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("sqllog: scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqllog: rows: %w", err)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, line := range lines {
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}

func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
