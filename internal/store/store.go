// Package store persists extraction runs and their accepted mentions.
// DuckDB is the default backend (batch appender, queryable with SQL);
// SQLite is supported for environments without the DuckDB runtime.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"
)

// Store manages a database connection holding extraction results.
type Store struct {
	db     *sql.DB
	driver string
	path   string
}

// Open opens or creates a result database with the given driver.
// Use an empty path for an in-memory database.
func Open(driver, path string) (*Store, error) {
	if driver == "" {
		driver = DriverDuckDB
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	var dsn string
	switch driver {
	case DriverDuckDB:
		dsn = path
	case DriverSQLite:
		dsn = path
		if dsn == "" {
			dsn = ":memory:"
		}
		dsn += "?_journal_mode=WAL&_foreign_keys=on"
	default:
		return nil, fmt.Errorf("open store: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// ensureSchema creates tables if they don't exist. The column types are
// understood by both DuckDB and SQLite.
func (s *Store) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			source VARCHAR,
			source_size BIGINT,
			source_mod_time TIMESTAMP,
			min_confidence DOUBLE,
			started_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS mentions (
			run_id VARCHAR,
			doc_id VARCHAR,
			seq BIGINT,
			variant VARCHAR,
			category VARCHAR,
			pattern VARCHAR,
			confidence DOUBLE,
			start_offset BIGINT,
			end_offset BIGINT,
			normalized VARCHAR,
			norm_category VARCHAR,
			norm_confidence DOUBLE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_run ON mentions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_normalized ON mentions(normalized)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
