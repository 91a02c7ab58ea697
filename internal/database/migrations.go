package database

import (
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var sqlFiles embed.FS

// MigrationSource returns the embedded migrations for driver together with
// the sql-migrate dialect name.
func MigrationSource(driver string) (migrate.MigrationSource, string, error) {
	switch driver {
	case DriverPostgres:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: sqlFiles, Root: "sql/postgres"}, "postgres", nil
	case DriverSQLite:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: sqlFiles, Root: "sql/sqlite"}, "sqlite3", nil
	default:
		return nil, "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate applies up to max migrations in direction dir; max 0 means all.
func Migrate(db *sql.DB, driver string, dir migrate.MigrationDirection, max int) (int, error) {
	source, dialect, err := MigrationSource(driver)
	if err != nil {
		return 0, err
	}

	n, err := migrate.ExecMax(db, dialect, source, dir, max)
	if err != nil {
		return n, fmt.Errorf("migration failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{"driver": driver, "applied": n}).Info("Migrations executed")
	return n, nil
}
