package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customers")

	vs, err := h.Svc.ListProfiles(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "get_customers_error", err)
	}

	out := make([]transport.CustomerResponse, 0, len(vs))
	for i := range vs {
		out = append(out, customerResponse(&vs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	includeOrders, err := queryBool(c, "includeOrders", false)
	if err != nil {
		return fail(l, "get_customer_error", err)
	}

	v, err := h.Svc.GetProfile(ctx, callerFrom(c), id, includeOrders)
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	return c.JSON(http.StatusOK, customerResponse(v))
}

func (h *CustomerHTTP) GetMyProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_my_profile")

	v, err := h.Svc.GetProfileByAccount(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "get_my_profile_error", err)
	}
	return c.JSON(http.StatusOK, customerResponse(v))
}

func (h *CustomerHTTP) CreateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create_profile")

	var req transport.CustomerProfileRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_profile_error", err)
	}

	v, err := h.Svc.CreateProfile(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "create_profile_error", err)
	}

	l.Info("create_profile_success", "customer_id", v.Customer.ID)
	return c.JSON(http.StatusCreated, customerResponse(v))
}

func (h *CustomerHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update_profile")

	var req transport.CustomerProfileRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_profile_error", err)
	}

	v, err := h.Svc.UpdateProfile(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	return c.JSON(http.StatusOK, customerResponse(v))
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete_customer")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_customer_error", err)
	}
	if err := h.Svc.DeleteProfile(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_customer_error", err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}
