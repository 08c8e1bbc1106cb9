package wal

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNew_AllBackends(t *testing.T) {
	for _, backend := range Backends {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			l, err := New(Config{Backend: backend, Path: filepath.Join(t.TempDir(), "log")})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			defer l.Close()

			for _, line := range []string{"first", "second"} {
				if err := l.Append(ctx, line); err != nil {
					t.Fatalf("append: %v", err)
				}
			}
			var got []string
			if err := l.ReadAll(ctx, func(line string) error {
				got = append(got, line)
				return nil
			}); err != nil {
				t.Fatalf("read all: %v", err)
			}
			if len(got) != 2 || got[0] != "first" || got[1] != "second" {
				t.Fatalf("unexpected lines %v", got)
			}
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(Config{Backend: "tape"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(BackendText); got != "activityLog.txt" {
		t.Fatalf("unexpected text default %q", got)
	}
	if got := DefaultPath(BackendSQLite); got != "activityLog.db" {
		t.Fatalf("unexpected sqlite default %q", got)
	}
}
