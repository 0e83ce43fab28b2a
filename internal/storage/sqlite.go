package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const memoryPath = ":memory:"

// SQLiteStorage persists accounts, budgets and emission transactions in a
// single SQLite file.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
// Pass ":memory:" for a throwaway database. Call Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn, err := dataSourceName(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	// One connection: :memory: databases live per connection, and SQLite
	// allows a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbPath, err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

func dataSourceName(dbPath string) (string, error) {
	if dbPath == memoryPath {
		return dbPath, nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", nil
}

// Close releases the underlying connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path reports the path the storage was opened with.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}
