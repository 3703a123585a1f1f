package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "register_error", err)
	}

	acc, err := h.Svc.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "account_id", acc.ID)
	return c.JSON(http.StatusCreated, accountResponse(acc))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "account_id", res.Account.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:     res.Token,
		User:      accountResponse(res.Account),
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *AuthHTTP) ListAccounts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.list_accounts")

	accs, err := h.Svc.ListAccounts(ctx, callerFrom(c))
	if err != nil {
		return fail(l, "list_accounts_error", err)
	}

	out := make([]transport.AccountResponse, 0, len(accs))
	for i := range accs {
		out = append(out, accountResponse(&accs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHTTP) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.get_account")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_account_error", err)
	}
	acc, err := h.Svc.GetAccount(ctx, callerFrom(c), id)
	if err != nil {
		return fail(l, "get_account_error", err)
	}
	return c.JSON(http.StatusOK, accountResponse(acc))
}

func (h *AuthHTTP) GetAccountWithProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.get_account_with_profile")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_account_with_profile_error", err)
	}
	res, err := h.Svc.GetAccountWithProfile(ctx, callerFrom(c), id)
	if err != nil {
		return fail(l, "get_account_with_profile_error", err)
	}

	return c.JSON(http.StatusOK, transport.AccountWithProfileResponse{
		AccountResponse: accountResponse(res.Account),
		Customer:        bareCustomerResponse(res.Customer, res.Account),
	})
}

func (h *AuthHTTP) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_account")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_account_error", err)
	}
	if err := h.Svc.DeleteAccount(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_account_error", err)
	}

	l.Info("delete_account_success", "account_id", id)
	return c.NoContent(http.StatusNoContent)
}
