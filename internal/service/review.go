package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *ReviewService) requireProduct(ctx context.Context, productID uint) error {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return storeErr("get product", err, "Product not found.")
	}
	return nil
}

// ListReviews returns the approved reviews of a product, newest first. A
// signed-in caller also sees their own review while it awaits approval.
func (s *ReviewService) ListReviews(ctx context.Context, caller Caller, productID uint) ([]models.Review, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	if !caller.Authenticated() {
		rs, err := s.Repo.ListApprovedReviews(ctx, productID)
		if err != nil {
			return nil, storeErr("list reviews", err, "")
		}
		return rs, nil
	}

	acc, err := s.Repo.GetAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, storeErr("get account", err, "User not found.")
	}
	rs, err := s.Repo.ListVisibleReviews(ctx, productID, acc.Email)
	if err != nil {
		return nil, storeErr("list reviews", err, "")
	}
	return rs, nil
}

func (s *ReviewService) GetReview(ctx context.Context, productID, reviewID uint) (*models.Review, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	rv, err := s.Repo.GetReview(ctx, productID, reviewID)
	if err != nil {
		return nil, storeErr("get review", err, "Review not found.")
	}
	return rv, nil
}

func (s *ReviewService) ListPendingReviews(ctx context.Context, caller Caller) ([]models.Review, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	rs, err := s.Repo.ListPendingReviews(ctx)
	if err != nil {
		return nil, storeErr("list pending reviews", err, "")
	}
	return rs, nil
}

// CreateReview snapshots the caller's name and email onto the review. A
// customer profile is required and each email may review a product once.
func (s *ReviewService) CreateReview(ctx context.Context, caller Caller, productID uint, req transport.CreateReviewRequest) (*models.Review, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, newErr(ErrValidation, "Rating must be between 1 and 5.")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetCustomerByAccount(ctx, caller.AccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newErr(ErrValidation, "Customer profile not found. Please create a customer profile first.")
		}
		return nil, storeErr("get customer", err, "")
	}
	acc, err := s.Repo.GetAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, storeErr("get account", err, "User not found.")
	}

	exists, err := s.Repo.ReviewExistsForEmail(ctx, productID, acc.Email)
	if err != nil {
		return nil, storeErr("check review", err, "")
	}
	if exists {
		return nil, newErr(ErrConflict, "You have already reviewed this product.")
	}

	var comment *string
	if req.Comment != nil {
		c := strings.TrimSpace(*req.Comment)
		comment = &c
	}
	rv := &models.Review{
		Rating:        req.Rating,
		Comment:       comment,
		CustomerName:  acc.FullName(),
		CustomerEmail: acc.Email,
		ProductID:     productID,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newErr(ErrConflict, "You have already reviewed this product.")
		}
		return nil, storeErr("create review", err, "")
	}

	publish(ctx, s.Events, events.TopicReviews, rv.ID, events.Event{Type: events.ReviewCreated, ReviewID: rv.ID, ProductID: productID})
	return rv, nil
}

func (s *ReviewService) ApproveReview(ctx context.Context, caller Caller, productID, reviewID uint, approve bool) (*models.Review, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	rv, err := s.Repo.GetReview(ctx, productID, reviewID)
	if err != nil {
		return nil, storeErr("get review", err, "Review not found.")
	}
	if err := s.Repo.SetReviewApproval(ctx, rv.ID, approve); err != nil {
		return nil, storeErr("approve review", err, "Review not found.")
	}
	rv.IsApproved = approve

	publish(ctx, s.Events, events.TopicReviews, rv.ID, events.Event{Type: events.ReviewApproved, ReviewID: rv.ID, ProductID: productID, Approved: &approve})
	return rv, nil
}

// DeleteReview lets admins remove any review. Other callers may only remove
// a review carrying their own account email.
func (s *ReviewService) DeleteReview(ctx context.Context, caller Caller, productID, reviewID uint) error {
	if err := caller.RequireAuthenticated(); err != nil {
		return err
	}

	rv, err := s.Repo.GetReview(ctx, productID, reviewID)
	if err != nil {
		return storeErr("get review", err, "Review not found.")
	}

	if !caller.IsAdmin() {
		acc, err := s.Repo.GetAccount(ctx, caller.AccountID)
		if err != nil {
			return storeErr("get account", err, "User not found.")
		}
		if !strings.EqualFold(acc.Email, rv.CustomerEmail) {
			return newErr(ErrForbidden, "You can only delete your own reviews.")
		}
	}

	if err := s.Repo.DeleteReview(ctx, rv.ID); err != nil {
		return storeErr("delete review", err, "Review not found.")
	}

	publish(ctx, s.Events, events.TopicReviews, rv.ID, events.Event{Type: events.ReviewDeleted, ReviewID: rv.ID, ProductID: productID})
	return nil
}
