package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/taxwise/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Storage persists classified transactions and tax calculation records.
type Storage interface {
	SaveTransactions(ctx context.Context, txns []model.ClassifiedTransaction) (int, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.ClassifiedTransaction, error)
	SaveTaxCalculation(ctx context.Context, calc *model.TaxCalculation) error
	GetLatestTaxCalculation(ctx context.Context, financialYear string) (*model.TaxCalculation, error)
	ListTaxCalculations(ctx context.Context, limit int) ([]model.TaxCalculation, error)
	Migrate(ctx context.Context) error
	Close() error
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases coherent and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
