package sqllog

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLog_AppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tm.db")
	ctx := context.Background()

	l, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, line := range []string{"one", "two", "three"} {
		if err := l.Append(ctx, line); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	l, err = Open(Config{Path: path, Sync: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()

	var got []string
	err = l.ReadAll(ctx, func(line string) error {
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 3 || got[0] != "one" || got[1] != "two" || got[2] != "three" {
		t.Fatalf("unexpected lines %v", got)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{Path: "  "}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
