package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// CategoryNameTaken compares names case-insensitively. excludeID of 0
// checks against every category.
func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *GormRepo) CountProductsByCategory(ctx context.Context, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		CategoryID uint
		N          int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("category_id, COUNT(*) AS n").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CategoryID] = row.N
	}
	return out, nil
}

func (r *GormRepo) UpdateCategory(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
