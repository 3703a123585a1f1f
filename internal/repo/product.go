package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Name       string
	Search     string
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("products.is_active = ?", true)

	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(COALESCE(products.description, '')) LIKE ?", like, like)
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.InStock != nil && *f.InStock {
		q = q.Where("products.stock_quantity > 0")
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Product{})).
		Preload("Category").
		Order("products.name ASC").
		Order("products.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveProductsByIDs keeps the order of ids and drops ids that are
// missing or inactive.
func (r *GormRepo) GetActiveProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var found []models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) ListActiveProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var ps []models.Product
	if err := r.DB.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Category", "Reviews").Create(p).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ProductHasOrderItems(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}
