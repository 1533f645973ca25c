// Package testdb opens a migrated in-memory sqlite database for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/database"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/migration"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/config"
)

// New returns a fresh database with every model migrated. Extra models or
// raw DDL statements may be passed through Option.
func New(t testing.TB, opts ...Option) *gorm.DB {
	t.Helper()

	gdb, err := database.Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Database: ":memory:",
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))
	for _, opt := range opts {
		opt(t, gdb)
	}
	return gdb
}

type Option func(t testing.TB, gdb *gorm.DB)

// WithDDL runs statements after migration, e.g. to create dataset tables.
func WithDDL(statements ...string) Option {
	return func(t testing.TB, gdb *gorm.DB) {
		for _, stmt := range statements {
			require.NoError(t, gdb.Exec(stmt).Error)
		}
	}
}
