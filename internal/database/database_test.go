package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katalog/internal/database"
	"katalog/internal/models"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: "file:open_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasIndex(&models.Product{}, "idx_products_created_at"))
	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "mongodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mongodb"`)
}
