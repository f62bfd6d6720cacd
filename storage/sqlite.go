package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"autocatalog/core"
)

// LockPolicy selects the concurrency-control behavior applied by an
// entity's update path. Car updates use LockOptimistic (a version
// counter checked at commit time), model updates use LockPessimistic
// (the whole read-then-write runs inside one write-pool transaction,
// serialized by the single WAL writer).
type LockPolicy int

const (
	LockOptimistic LockPolicy = iota
	LockPessimistic
)

func (p LockPolicy) String() string {
	switch p {
	case LockOptimistic:
		return "optimistic"
	case LockPessimistic:
		return "pessimistic"
	default:
		return "unknown"
	}
}

// SQLite holds the SQLite database connections for catalog storage.
// Separate read and write pools leverage WAL mode's concurrent read
// capability: one writer, many readers.
type SQLite struct {
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Path    string
	Logger  *zap.SugaredLogger
}

// configureConnection sets up WAL mode, foreign keys, and busy timeout
// for a connection pool.
func configureConnection(db *sql.DB, dbPath string) error {
	// Connection string params are not reliable for pragmas, so set
	// them explicitly.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite disables foreign keys by default; referential integrity
	// between cars, models, engines, categories, and brands depends on
	// this pragma.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	var fkEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to verify foreign keys: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys not enabled (got: %d)", fkEnabled)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// In-memory databases report "memory" journal mode, not "wal".
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to query journal mode: %w", err)
	}
	if dbPath != ":memory:" && journalMode != "wal" {
		return fmt.Errorf("WAL mode not enabled (got: %s)", journalMode)
	}

	return nil
}

// NewSQLite opens the catalog database, creating the schema if needed.
func NewSQLite(dbPath string, logger *zap.SugaredLogger) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// In-memory databases need shared cache so both pools see the same
	// database instead of two empty ones.
	actualPath := dbPath
	if dbPath == ":memory:" {
		actualPath = "file::memory:?cache=shared"
	}

	writeDB, err := sql.Open("sqlite", actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite write database: %w", err)
	}
	if err := configureConnection(writeDB, dbPath); err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("failed to configure write connection: %w", err)
	}

	// Single writer: WAL allows exactly one write transaction at a
	// time, and a pool of one connection serializes them cleanly. The
	// pessimistic model-update path relies on this.
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(0)
	writeDB.SetConnMaxIdleTime(10 * time.Minute)

	readDB, err := sql.Open("sqlite", actualPath)
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("failed to open SQLite read database: %w", err)
	}
	if err := configureConnection(readDB, dbPath); err != nil {
		_ = writeDB.Close()
		_ = readDB.Close()
		return nil, fmt.Errorf("failed to configure read connection: %w", err)
	}

	if _, err := readDB.Exec("PRAGMA query_only=ON"); err != nil {
		_ = writeDB.Close()
		_ = readDB.Close()
		return nil, fmt.Errorf("failed to enable query_only mode on read pool: %w", err)
	}

	readDB.SetMaxOpenConns(10)
	readDB.SetMaxIdleConns(5)
	readDB.SetConnMaxLifetime(5 * time.Minute)
	readDB.SetConnMaxIdleTime(10 * time.Minute)

	s := &SQLite{
		WriteDB: writeDB,
		ReadDB:  readDB,
		Path:    dbPath,
		Logger:  logger,
	}

	if err := s.createTables(); err != nil {
		_ = writeDB.Close()
		_ = readDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Infof("SQLite database initialized at %s with separate read/write pools", dbPath)

	return s, nil
}

// WithTransaction executes fn within a write-pool transaction, rolling
// back on error or panic.
func (s *SQLite) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.WriteDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction (original error: %w, rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// createTables creates the catalog schema.
func (s *SQLite) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS brands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		CONSTRAINT uq_brand_name UNIQUE (name)
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		CONSTRAINT uq_category_name UNIQUE (name)
	);

	CREATE TABLE IF NOT EXISTS engines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		capacity REAL NOT NULL CHECK (capacity > 0),
		type TEXT NOT NULL CHECK (type IN ('PETROL','DIESEL','ELECTRIC')),
		CONSTRAINT uq_engine_name UNIQUE (name)
	);

	CREATE TABLE IF NOT EXISTS models (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		generation TEXT NOT NULL,
		start_manufacturing TEXT NOT NULL, -- RFC3339 UTC
		end_manufacturing TEXT NOT NULL,   -- RFC3339 UTC
		brand_id INTEGER NOT NULL,
		CONSTRAINT fk_models_brand_id FOREIGN KEY (brand_id) REFERENCES brands(id)
	);
	CREATE INDEX IF NOT EXISTS idx_models_brand_id ON models(brand_id);
	CREATE INDEX IF NOT EXISTS idx_models_name ON models(name);

	CREATE TABLE IF NOT EXISTS cars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		color TEXT NOT NULL,
		serial_number TEXT NOT NULL,
		manufacturing_date TEXT NOT NULL, -- RFC3339 UTC
		drive TEXT NOT NULL CHECK (drive IN ('ALL','FRONT','BACK')),
		model_id INTEGER NOT NULL,
		engine_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		CONSTRAINT uq_car_serial_number UNIQUE (serial_number),
		CONSTRAINT fk_cars_model_id FOREIGN KEY (model_id) REFERENCES models(id),
		CONSTRAINT fk_cars_engine_id FOREIGN KEY (engine_id) REFERENCES engines(id),
		CONSTRAINT fk_cars_category_id FOREIGN KEY (category_id) REFERENCES categories(id)
	);
	CREATE INDEX IF NOT EXISTS idx_cars_model_id ON cars(model_id);
	CREATE INDEX IF NOT EXISTS idx_cars_category_id ON cars(category_id);
	CREATE INDEX IF NOT EXISTS idx_cars_engine_id ON cars(engine_id);
	CREATE INDEX IF NOT EXISTS idx_cars_manufacturing_date ON cars(manufacturing_date);
	`

	if _, err := s.WriteDB.Exec(schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return nil
}

// Close closes both connection pools.
func (s *SQLite) Close() error {
	var firstErr error
	if err := s.WriteDB.Close(); err != nil {
		firstErr = err
	}
	if err := s.ReadDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// formatTime renders a timestamp in the canonical stored form.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a stored RFC3339 timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// mapConstraintError translates SQLite constraint failures into the
// storage sentinel errors. Unique-name collisions and FK violations
// both surface as conflict-class errors at the transport boundary.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "serial_number"):
		return ErrDuplicateSerialNumber
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicateName
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return ErrConstraintViolation
	}
	return err
}

// orderClause validates the requested sort field against the entity's
// whitelist and returns the ORDER BY fragment. Sort fields are mapped
// to concrete columns, never interpolated from user input.
func orderClause(whitelist map[string]string, req core.PageRequest) (string, error) {
	column, ok := whitelist[req.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, req.SortBy)
	}
	direction := "ASC"
	if req.Descending() {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction), nil
}
