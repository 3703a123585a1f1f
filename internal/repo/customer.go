package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint, includeOrders bool) (*models.Customer, error) {
	q := r.DB.WithContext(ctx)
	if includeOrders {
		q = q.Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_date DESC")
		}).Preload("Orders.Items")
	}

	var c models.Customer
	if err := q.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) GetCustomerByAccount(ctx context.Context, accountID uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CustomerExistsForAccount(ctx context.Context, accountID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Customer{}).Where("account_id = ?", accountID).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var cs []models.Customer
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *GormRepo) UpdateCustomer(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCustomerTx(tx, id)
	})
}

func deleteCustomerTx(tx *gorm.DB, id uint) error {
	orderIDs := tx.Model(&models.Order{}).Select("id").Where("customer_id = ?", id)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return err
	}

	res := tx.Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountCustomerOrders(ctx context.Context, customerID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, err
}
