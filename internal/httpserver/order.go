package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_order_error", err)
	}

	o, err := h.Svc.CreateOrder(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}
	return c.JSON(http.StatusCreated, orderResponse(o))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	includeItems, err := queryBool(c, "includeOrderItems", true)
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	o, err := h.Svc.GetOrder(ctx, callerFrom(c), id, includeItems)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_my_orders")

	orders, err := h.Svc.ListMyOrders(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "get_my_orders_error", err)
	}
	return c.JSON(http.StatusOK, ordersResponse(orders))
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	page, size := pageParams(c)
	res, err := h.Svc.ListOrders(ctx, callerFrom(c), c.QueryParam("status"), page, size)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}

	setPagination(c, res.Meta)
	return c.JSON(http.StatusOK, ordersResponse(res.Items))
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_order_error", err)
	}
	var req transport.UpdateOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_order_error", err)
	}

	o, err := h.Svc.UpdateOrder(ctx, callerFrom(c), id, req)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", o.ID, "status", o.Status)
	return c.JSON(http.StatusOK, orderResponse(o))
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}
	o, err := h.Svc.CancelOrder(ctx, callerFrom(c), id)
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, orderResponse(o))
}
