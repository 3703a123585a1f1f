package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrder persists the order and its items in one transaction. When
// order.StockReserved is set each item's quantity is taken from its
// product's stock; a product that no longer holds enough stock aborts the
// whole order.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.StockReserved {
			for _, it := range order.Items {
				res := tx.Model(&models.Product{}).
					Where("id = ? AND stock_quantity >= ?", it.ProductID, it.Quantity).
					Update("stock_quantity", gorm.Expr("stock_quantity - ?", it.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("product %d: %w", it.ProductID, ErrInsufficientStock)
				}
			}
		}
		return tx.Create(order).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint, includeItems bool) (*models.Order, error) {
	q := r.DB.WithContext(ctx)
	if includeItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}

	var o models.Order
	if err := q.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status *models.OrderStatus, offset, limit int) (int64, []models.Order, error) {
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Order{})
		if status != nil {
			q = q.Where("status = ?", *status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Order, 0, limit)
	if err := base().
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("order_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelOrder moves the order from its observed status to Cancelled. The
// write only lands if the status is still from; otherwise ErrStaleState is
// returned. Orders placed with reserved stock give their item quantities
// back to product stock in the same transaction.
func (r *GormRepo) CancelOrder(ctx context.Context, id uint, from models.OrderStatus) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleState
		}
		var o models.Order
		if err := tx.Select("id", "stock_reserved").First(&o, id).Error; err != nil {
			return err
		}
		if !o.StockReserved {
			return nil
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) CountOrders(ctx context.Context, status *models.OrderStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *GormRepo) SumOrderTotals(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", status).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
