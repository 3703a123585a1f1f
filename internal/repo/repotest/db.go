// Package repotest opens throwaway in-memory stores for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/repo"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

func NewRepo(t testing.TB) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: NewDB(t)}
}
