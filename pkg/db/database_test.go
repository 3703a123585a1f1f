package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sqlite", Dialector("sqlite:file::memory:").Name())
	assert.Equal(t, "postgres", Dialector("postgres://u:p@localhost:5432/shop").Name())
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), "sqlite:file:opentest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
