package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AdminHTTP struct {
	Svc     *service.AdminService
	Reviews *service.ReviewService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	st, err := h.Svc.DashboardStats(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AdminHTTP) UpdateUserRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_user_role")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_user_role_error", err)
	}
	var req transport.RoleUpdateRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_user_role_error", err)
	}

	if err := h.Svc.UpdateUserRole(ctx, callerFrom(c), id, req.Role); err != nil {
		return fail(l, "update_user_role_error", err)
	}

	l.Info("update_user_role_success", "account_id", id, "role", req.Role)
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) PendingReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.pending_reviews")

	rs, err := h.Reviews.ListPendingReviews(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "pending_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviewsResponse(rs))
}

func (h *AdminHTTP) BulkApproveReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.bulk_approve_reviews")

	var req transport.BulkReviewRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "bulk_approve_reviews_error", err)
	}

	n, err := h.Svc.BulkApproveReviews(ctx, callerFrom(c), req.ReviewIDs, req.Approve)
	if err != nil {
		return fail(l, "bulk_approve_reviews_error", err)
	}
	return c.JSON(http.StatusOK, transport.BulkReviewResponse{Requested: len(req.ReviewIDs), Updated: n})
}
