package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

type ReviewStats struct {
	ProductID uint
	Count     int64
	Average   float64
}

func (r *GormRepo) ListApprovedReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	var rs []models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_date DESC").
		Order("id DESC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

// ListVisibleReviews returns the approved reviews of a product plus any
// review written under email, approved or not.
func (r *GormRepo) ListVisibleReviews(ctx context.Context, productID uint, email string) ([]models.Review, error) {
	var rs []models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND (is_approved = ? OR customer_email = ?)", productID, true, email).
		Order("created_date DESC").
		Order("id DESC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *GormRepo) ListPendingReviews(ctx context.Context) ([]models.Review, error) {
	var rs []models.Review
	if err := r.DB.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_date DESC").
		Order("id DESC").
		Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *GormRepo) GetReview(ctx context.Context, productID, reviewID uint) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND product_id = ?", reviewID, productID).
		First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormRepo) ReviewExistsForEmail(ctx context.Context, productID uint, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND customer_email = ?", productID, email).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *GormRepo) SetReviewApproval(ctx context.Context, reviewID uint, approve bool) error {
	return r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("is_approved", approve).Error
}

// SetReviewsApproval updates every listed review in one statement. Ids that
// do not resolve are ignored; the number of matched rows is returned.
func (r *GormRepo) SetReviewsApproval(ctx context.Context, ids []uint, approve bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("id IN ?", ids).
		Update("is_approved", approve)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteReview(ctx context.Context, reviewID uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApprovedReviewStats aggregates approved reviews per product.
func (r *GormRepo) ApprovedReviewStats(ctx context.Context, productIDs []uint) (map[uint]ReviewStats, error) {
	out := make(map[uint]ReviewStats, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var rows []ReviewStats
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("product_id, COUNT(*) AS count, AVG(rating) AS average").
		Where("product_id IN ? AND is_approved = ?", productIDs, true).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}
