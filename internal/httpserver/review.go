package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_reviews")

	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "get_reviews_error", err)
	}
	rs, err := h.Svc.ListReviews(ctx, callerFrom(c), productID)
	if err != nil {
		return fail(l, "get_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviewsResponse(rs))
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "get_review_error", err)
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_review_error", err)
	}

	rv, err := h.Svc.GetReview(ctx, productID, reviewID)
	if err != nil {
		return fail(l, "get_review_error", err)
	}
	return c.JSON(http.StatusOK, reviewResponse(rv))
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "create_review_error", err)
	}
	var req transport.CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_review_error", err)
	}

	rv, err := h.Svc.CreateReview(ctx, callerFrom(c), productID, req)
	if err != nil {
		return fail(l, "create_review_error", err)
	}

	l.Info("create_review_success", "review_id", rv.ID, "product_id", productID)
	return c.JSON(http.StatusCreated, reviewResponse(rv))
}

func (h *ReviewHTTP) ApproveReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.approve_review")

	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "approve_review_error", err)
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "approve_review_error", err)
	}
	req := transport.ApproveReviewRequest{}
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return fail(l, "approve_review_error", err)
		}
	}
	approve := true
	if req.Approve != nil {
		approve = *req.Approve
	}

	if _, err := h.Svc.ApproveReview(ctx, callerFrom(c), productID, reviewID, approve); err != nil {
		return fail(l, "approve_review_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "delete_review_error", err)
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_review_error", err)
	}

	if err := h.Svc.DeleteReview(ctx, callerFrom(c), productID, reviewID); err != nil {
		return fail(l, "delete_review_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
