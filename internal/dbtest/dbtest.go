// Package dbtest opens throwaway sqlite databases migrated with the shop models.
package dbtest

import (
	"testing"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/pkg/db"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}
