package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo/repotest"
)

func TestCreateCategory_NameUniqueIgnoringCase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)

	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "Books", IsActive: true}))

	err := r.CreateCategory(ctx, &models.Category{Name: "BOOKS", IsActive: true})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	music := &models.Category{Name: "Music", IsActive: true}
	require.NoError(t, r.CreateCategory(ctx, music))
	err = r.UpdateCategory(ctx, music.ID, map[string]any{"name": "books"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
