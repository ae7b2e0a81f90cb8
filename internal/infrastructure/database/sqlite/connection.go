// Package sqlite implements the catalog store on a single-file embedded
// database.  The driver is pure Go (modernc.org/sqlite), so the binary stays
// cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"steeldex/internal/config"
	"steeldex/pkg/errors"
)

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Open opens (and creates if necessary) the catalog database file and
// verifies the connection.  WAL keeps readers unblocked during a sync run;
// the busy timeout covers the single-writer handoff.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path, busy.Milliseconds())

	db, err := sqlOpen("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to open catalog database")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(4)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeDatabase, "catalog database ping failed")
	}
	return db, nil
}
