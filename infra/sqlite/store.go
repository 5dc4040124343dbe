// Package sqlite keeps the local history of configurations committed to
// controllers.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one commit attempt.
type Record struct {
	ID              int64
	SessionID       string
	Controller      string
	Destination     string
	Algo            string
	LinearIntensity int
	Outcome         string
	Error           string
	Configuration   json.RawMessage
	CreatedAt       time.Time
}

// HistoryStore records commit attempts in SQLite.
type HistoryStore struct {
	db *sql.DB
}

func Open(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS commits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	controller TEXT NOT NULL,
	destination TEXT NOT NULL,
	algo TEXT NOT NULL,
	linear_intensity INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	configuration_json TEXT NOT NULL,
	created_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize commits schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append stores r and returns its id. A zero CreatedAt is set to now.
func (s *HistoryStore) Append(ctx context.Context, r Record) (int64, error) {
	if r.SessionID == "" {
		return 0, fmt.Errorf("append commit record: session id is required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	configuration := string(r.Configuration)
	if configuration == "" {
		configuration = "null"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO commits (session_id, controller, destination, algo, linear_intensity, outcome, error, configuration_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Controller,
		r.Destination,
		r.Algo,
		r.LinearIntensity,
		r.Outcome,
		r.Error,
		configuration,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("append commit record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append commit record: %w", err)
	}
	return id, nil
}

// ErrNotFound is returned by Get for an unknown record id.
var ErrNotFound = errors.New("commit record not found")

// Get returns the record with the given id.
func (s *HistoryStore) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM commits WHERE id = ?`, id)
	r, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, err
}

// List returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM commits ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commit history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commit history: %w", err)
	}
	return out, nil
}

const recordColumns = `id, session_id, controller, destination, algo, linear_intensity, outcome, error, configuration_json, created_at`

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var (
		r             Record
		configuration string
		createdAt     string
	)
	if err := scan(&r.ID, &r.SessionID, &r.Controller, &r.Destination, &r.Algo,
		&r.LinearIntensity, &r.Outcome, &r.Error, &configuration, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan commit record: %w", err)
	}
	r.Configuration = json.RawMessage(configuration)
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse commit time %q: %w", createdAt, err)
	}
	r.CreatedAt = created
	return r, nil
}

// openDB opens a SQLite database with standard pragmas (WAL mode, busy timeout).
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}
