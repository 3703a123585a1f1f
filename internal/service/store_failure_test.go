package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/repo"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

func newMockCatalog(t *testing.T) (*CatalogService, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gdb, err := pkgdb.OpenWithConn(conn)
	require.NoError(t, err)
	return &CatalogService{Repo: &repo.GormRepo{DB: gdb}, MaxPageSize: 20}, mock
}

func TestStoreFailure_IsNotAClientError(t *testing.T) {
	t.Parallel()
	svc, mock := newMockCatalog(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(errors.New("connection reset by peer"))

	_, err := svc.GetProduct(context.Background(), 1, false)
	require.Error(t, err)
	for _, kind := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict} {
		assert.NotErrorIs(t, err, kind)
	}
	assert.Contains(t, err.Error(), "get product")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFailure_EmptyResultIsNotFound(t *testing.T) {
	t.Parallel()
	svc, mock := newMockCatalog(t)

	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "is_active", "created_date"}))

	_, err := svc.GetCategory(context.Background(), 42, false)
	requireKind(t, err, ErrNotFound)
	assert.Equal(t, "Category not found.", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}
