package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
)

// NewConnection opens the configured database and verifies it is
// reachable. The returned cleanup closes the pool.
func NewConnection(cfg *config.Config) (*sql.DB, func(), error) {
	driver := cfg.DriverName()
	dsn := cfg.DSN()
	if driver == "sqlite3" {
		// The scheduler relies on item foreign keys; WAL keeps the
		// interactive CLI responsive while a stats query runs.
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cleanup := func() {
		db.Close()
	}
	return db, cleanup, nil
}
