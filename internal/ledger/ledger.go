// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of conversions. It records every
// per-file outcome and answers whether an input is unchanged since its last
// successful conversion.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

const defaultLimit = 20

// Entry is one recorded conversion.
type Entry struct {
	ID          int64                  `json:"id" yaml:"id"`
	Input       string                 `json:"input" yaml:"input"`
	Output      string                 `json:"output" yaml:"output"`
	Status      types.ConversionStatus `json:"status" yaml:"status"`
	AtomCount   int                    `json:"atom_count" yaml:"atom_count"`
	Err         string                 `json:"error,omitempty" yaml:"error,omitempty"`
	InputSHA256 string                 `json:"input_sha256" yaml:"input_sha256"`
	ConvertedAt time.Time              `json:"converted_at" yaml:"converted_at"`
}

// Ledger manages the conversion history database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, now: time.Now}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			atom_count INTEGER,
			error TEXT,
			input_sha256 TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_input ON conversions(input)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends the outcome of one file.
func (l *Ledger) Record(ctx context.Context, r types.FileResult) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO conversions (input, output, status, atom_count, error, input_sha256, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Input, r.Output, string(r.Status), r.AtomCount, r.Err, r.InputSHA256,
		l.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.Input, err)
	}
	return nil
}

// Unchanged reports whether the latest successful conversion of input wrote
// to output from content with the given digest.
func (l *Ledger) Unchanged(ctx context.Context, input, output, sha string) (bool, error) {
	var storedOutput, storedSHA string
	err := l.db.QueryRowContext(ctx,
		`SELECT output, input_sha256 FROM conversions
		 WHERE input = ? AND status = ?
		 ORDER BY id DESC LIMIT 1`,
		input, string(types.ConversionDone),
	).Scan(&storedOutput, &storedSHA)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", input, err)
	}
	return sha != "" && storedSHA == sha && storedOutput == output, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// uses the default of 20.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, input, output, status, COALESCE(atom_count, 0), COALESCE(error, ''),
		        COALESCE(input_sha256, ''), converted_at
		 FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, ts string
		if err := rows.Scan(&e.ID, &e.Input, &e.Output, &status, &e.AtomCount, &e.Err, &e.InputSHA256, &ts); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.Status = types.ConversionStatus(status)
		e.ConvertedAt, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
