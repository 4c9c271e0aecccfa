package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter numbers events across every table so quiz attempts and
// tutor calls interleave in one order. The row lives in global_sequence.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM global_sequence WHERE id = 1`).Scan(&n); err != nil {
		return nil, fmt.Errorf("check sequence: %w", err)
	}
	if n != 1 {
		return nil, fmt.Errorf("sequence row missing")
	}
	return &sequenceCounter{db: db}, nil
}

// Next claims a sequence number.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	const claim = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
	var seq int64
	if err := sc.db.QueryRowContext(ctx, claim).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo with raw SQL.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// where renders the filters of opts as a SQL suffix with its arguments.
func (opts QueryOpts) where() (string, []any) {
	var (
		clause string
		args   []any
	)
	add := func(cond string, arg any) {
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
		args = append(args, arg)
	}

	if opts.After > 0 {
		add("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		add("sequence < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		add("created_at >= ?", opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		add("created_at <= ?", opts.To.UnixMilli())
	}
	return clause, args
}
