package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"pricetracker/logger"
)

// Repository is the sqlite-backed price history store.
type Repository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewRepository opens (or creates) the database file at storagePath and
// runs the initial schema migration.
func NewRepository(ctx context.Context, storagePath string) (*Repository, error) {
	dtb, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: logger.ForRepository()}, nil
}

// NewWithDB wraps an existing database handle; used by tests.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db, log: logger.ForRepository()}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TIMESTAMP NOT NULL,
		product_id TEXT NOT NULL,
		price REAL NOT NULL,
		currency TEXT,
		availability TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_prices_product ON prices(product_id, recorded_at);

	CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY NOT NULL,
		title TEXT,
		url TEXT,
		last_checked TIMESTAMP,
		last_price REAL,
		currency TEXT,
		availability TEXT,
		image_url TEXT
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error().Err(err).Msg("failed to close the database")
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for the database handle.
func (r *Repository) DB() *sql.DB {
	return r.db
}
