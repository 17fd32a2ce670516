package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/convexo/faqtree/internal/model"
)

// OutputKey is the fixed key the latest document is stored under in the
// value store, matching the hosting platform's output convention.
const OutputKey = "OUTPUT"

// ErrNotFound is returned when no value exists for a key/site pair.
var ErrNotFound = errors.New("no stored output for key")

// Store provides SQLite-based persistence for generated documents.
//
// Design decision: We use a single database file rather than one per site
// because cross-site queries (dataset listing, per-site lookup) stay
// simple and backup is a single file copy.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "faqtree.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; multiple idle connections bring
	// nothing for this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Keyed value store: latest document per (key, site)
	CREATE TABLE IF NOT EXISTS outputs (
		key TEXT NOT NULL,
		site TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (key, site)
	);

	-- Append-only dataset: one row per generation
	CREATE TABLE IF NOT EXISTS dataset (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_dataset_site ON dataset(site);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SetValue stores the document under the given key for a site,
// overwriting any previous value (the value-store destination).
func (s *Store) SetValue(ctx context.Context, key, site string, doc *model.TreeDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outputs (key, site, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key, site) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`,
		key, site, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to store output: %w", err)
	}

	return nil
}

// GetValue retrieves the document stored under the given key for a site.
// Returns ErrNotFound when nothing is stored.
func (s *Store) GetValue(ctx context.Context, key, site string) (*model.TreeDocument, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM outputs WHERE key = ? AND site = ?",
		key, site,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query output: %w", err)
	}

	var doc model.TreeDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored document: %w", err)
	}

	return &doc, nil
}

// PushData appends the document to the dataset (the append destination).
func (s *Store) PushData(ctx context.Context, site string, doc *model.TreeDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO dataset (site, payload) VALUES (?, ?)",
		site, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to append to dataset: %w", err)
	}

	return nil
}

// DatasetCount returns the number of dataset rows for a site.
// An empty site counts all rows.
func (s *Store) DatasetCount(ctx context.Context, site string) (int, error) {
	query := "SELECT COUNT(*) FROM dataset"
	args := make([]any, 0, 1)
	if site != "" {
		query += " WHERE site = ?"
		args = append(args, site)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dataset rows: %w", err)
	}

	return count, nil
}
