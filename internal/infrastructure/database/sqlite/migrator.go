package sqlite

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to the latest version.  Migrations are
// embedded in the binary, so a fresh database file is usable without any
// external assets.
func Migrate(db *sql.DB, logger logging.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to load embedded migrations")
	}

	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to build migrator")
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Debug("schema already current")
			return nil
		}
		return errors.Wrap(err, errors.CodeDatabase, "migration failed")
	}

	version, dirty, _ := m.Version()
	logger.Info("schema migrated",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty))
	return nil
}
