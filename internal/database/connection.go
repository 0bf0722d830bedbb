package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/matthieukhl/drinkstand/internal/config"
	"github.com/matthieukhl/drinkstand/internal/orders"
)

// MySQL error number for a duplicate primary or unique key.
const errDuplicateEntry = 1062

type DB struct {
	*sql.DB
	// orderColumns maps canonical order fields onto the deployment's column
	// names. Unmapped fields use the canonical name.
	orderColumns map[string]string
}

// NewConnection creates a new database connection using the provided config
func NewConnection(cfg *config.DBConfig) (*DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := New(db, cfg.Columns())
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open handle. columns maps canonical order fields onto the
// column names of the orders table; each name must be a known spelling of
// its field, so nothing else ever reaches the SQL text.
func New(db *sql.DB, columns map[string]string) (*DB, error) {
	mapped := make(map[string]string, len(columns))
	for field, name := range columns {
		if name == "" || name == field {
			continue
		}
		if !orders.IsColumnAlias(field, name) {
			return nil, fmt.Errorf("unsupported column %q for order field %q", name, field)
		}
		mapped[field] = name
	}
	return &DB{DB: db, orderColumns: mapped}, nil
}

// HealthCheck performs a simple health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
