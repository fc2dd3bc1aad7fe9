// Package storage reads transactions from a SQLite ledger database.
// The database is always opened read-only.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage is a read-only view over a ledger database.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// Open opens the ledger at dbPath read-only. The file must exist.
func Open(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLedgerPath(dbPath); err != nil {
		return nil, err
	}

	dsn := "file:" + (&url.URL{Path: dbPath}).EscapedPath() + "?mode=ro&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStorage{db: db, dbPath: dbPath}

	version, err := store.schemaVersion(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if version != SchemaVersion {
		slog.Warn("Ledger schema version differs from the supported one",
			"path", dbPath,
			"version", version,
			"supported", SchemaVersion)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
