// Package kvlog stores the task log in a pebble database. Lines are keyed by
// a zero-padded sequence number so key order is write order.
package kvlog

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/pebble"

	"tm/infra/sequence"
)

var (
	keyPrefix = []byte("line/")
	keyUpper  = []byte("line/~")
)

type Config struct {
	Dir string
	// Sync makes every append durable before it returns.
	Sync bool
}

type Log struct {
	db    *pebble.DB
	seq   *sequence.Sequencer
	write *pebble.WriteOptions
}

func Open(cfg Config) (*Log, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("kvlog: dir is required")
	}
	db, err := pebble.Open(cfg.Dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("kvlog: open %s: %w", cfg.Dir, err)
	}

	last, err := lastSeq(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	write := pebble.NoSync
	if cfg.Sync {
		write = pebble.Sync
	}
	return &Log{db: db, seq: sequence.New(last), write: write}, nil
}

// lastSeq finds the highest stored sequence so appends resume after it.
func lastSeq(db *pebble.DB) (uint64, error) {
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: keyPrefix, UpperBound: keyUpper})
	if err != nil {
		return 0, fmt.Errorf("kvlog: iter: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	return parseKey(iter.Key())
}

func (l *Log) Append(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := keyFor(l.seq.Next())
	if err := l.db.Set(key, []byte(line), l.write); err != nil {
		return fmt.Errorf("kvlog: append: %w", err)
	}
	return nil
}

func (l *Log) ReadAll(ctx context.Context, fn func(line string) error) error {
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: keyPrefix, UpperBound: keyUpper})
	if err != nil {
		return fmt.Errorf("kvlog: iter: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(string(iter.Value())); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Len returns the number of stored lines.
func (l *Log) Len() uint64 {
	return l.seq.Current()
}

func (l *Log) Close() error {
	return l.db.Close()
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("line/%020d", seq))
}

func parseKey(b []byte) (uint64, error) {
	seq, err := strconv.ParseUint(string(bytes.TrimPrefix(b, keyPrefix)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("kvlog: bad key %q: %w", b, err)
	}
	return seq, nil
}
