// Package textlog stores the task log as a plain text file, one framed
// record per line.
package textlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the log file used when none is configured.
const DefaultPath = "activityLog.txt"

// MaxLineSize bounds a single appended line. Reading has no limit, so logs
// written by other tools still replay.
const MaxLineSize = 1 << 20

type Config struct {
	Path string
	// Sync fsyncs the file after every append.
	Sync bool
}

// Log is an append-only line file. Each ReadAll opens its own reader, so
// replay always starts from the first line.
type Log struct {
	path string
	sync bool
	file *os.File
}

func Open(cfg Config) (*Log, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return &Log{path: path, sync: cfg.Sync, file: f}, nil
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Append(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(line, "\r\n") {
		return errors.New("textlog: line contains a line break")
	}
	if len(line) > MaxLineSize {
		return fmt.Errorf("textlog: line of %d bytes exceeds %d", len(line), MaxLineSize)
	}
	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("textlog: append: %w", err)
	}
	if l.sync {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("textlog: sync: %w", err)
		}
	}
	return nil
}

func (l *Log) ReadAll(ctx context.Context, fn func(line string) error) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("textlog: open reader: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("textlog: read: %w", err)
		}
	}
}

func (l *Log) Close() error {
	return l.file.Close()
}
