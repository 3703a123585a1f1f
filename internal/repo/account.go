package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account) error {
	return r.DB.WithContext(ctx).Create(acc).Error
}

func (r *GormRepo) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).First(&acc, id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *GormRepo) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *GormRepo) AccountExists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accs []models.Account
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&accs).Error; err != nil {
		return nil, err
	}
	return accs, nil
}

func (r *GormRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_date", at).Error
}

func (r *GormRepo) UpdateAccountRole(ctx context.Context, id uint, role string) error {
	res := r.DB.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAccount removes the account together with its profile, orders and
// order items.
func (r *GormRepo) DeleteAccount(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cust models.Customer
		err := tx.Where("account_id = ?", id).Limit(1).Find(&cust).Error
		if err != nil {
			return err
		}
		if cust.ID != 0 {
			if err := deleteCustomerTx(tx, cust.ID); err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Account{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Account{}).Count(&n).Error
	return n, err
}
