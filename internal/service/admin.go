package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AdminService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

type DashboardStats struct {
	TotalUsers     int64           `json:"totalUsers"`
	TotalCustomers int64           `json:"totalCustomers"`
	TotalProducts  int64           `json:"totalProducts"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	PendingOrders  int64           `json:"pendingOrders"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

func (s *AdminService) DashboardStats(ctx context.Context, caller Caller) (*DashboardStats, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	var (
		st  DashboardStats
		err error
	)
	if st.TotalUsers, err = s.Repo.CountAccounts(ctx); err != nil {
		return nil, storeErr("count accounts", err, "")
	}
	if st.TotalCustomers, err = s.Repo.CountCustomers(ctx); err != nil {
		return nil, storeErr("count customers", err, "")
	}
	if st.TotalProducts, err = s.Repo.CountProducts(ctx); err != nil {
		return nil, storeErr("count products", err, "")
	}
	if st.TotalOrders, err = s.Repo.CountOrders(ctx, nil); err != nil {
		return nil, storeErr("count orders", err, "")
	}
	pending := models.OrderStatusPending
	if st.PendingOrders, err = s.Repo.CountOrders(ctx, &pending); err != nil {
		return nil, storeErr("count pending orders", err, "")
	}
	if st.TotalRevenue, err = s.Repo.SumOrderTotals(ctx, models.OrderStatusDelivered); err != nil {
		return nil, storeErr("sum revenue", err, "")
	}

	st.LastUpdated = time.Now().UTC()
	if s.Now != nil {
		st.LastUpdated = s.Now().UTC()
	}
	return &st, nil
}

// BulkApproveReviews applies approve to every listed review that exists and
// skips the rest. It returns how many reviews were updated.
func (s *AdminService) BulkApproveReviews(ctx context.Context, caller Caller, ids []uint, approve bool) (int64, error) {
	if err := caller.RequireAdmin(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, newErr(ErrValidation, "At least one review id is required.")
	}

	n, err := s.Repo.SetReviewsApproval(ctx, ids, approve)
	if err != nil {
		return 0, storeErr("bulk approve reviews", err, "")
	}

	logging.FromContext(ctx).Info("bulk_approve_reviews", "requested", len(ids), "updated", n, "approve", approve)
	return n, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, caller Caller, id uint, role string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return newErr(ErrValidation, "Role must be either 'Admin' or 'User'.")
	}
	if err := s.Repo.UpdateAccountRole(ctx, id, role); err != nil {
		return storeErr("update role", err, "User not found.")
	}

	publish(ctx, s.Events, events.TopicUsers, id, events.Event{Type: events.UserRoleUpdated, AccountID: id, Role: role})
	return nil
}
