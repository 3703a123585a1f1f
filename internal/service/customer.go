package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CustomerService struct {
	Repo *repo.GormRepo
}

type CustomerView struct {
	Customer   models.Customer
	Account    models.Account
	OrderCount int64
}

func (s *CustomerService) view(ctx context.Context, c *models.Customer) (*CustomerView, error) {
	acc, err := s.Repo.GetAccount(ctx, c.AccountID)
	if err != nil {
		return nil, storeErr("get account", err, "User not found.")
	}
	n, err := s.Repo.CountCustomerOrders(ctx, c.ID)
	if err != nil {
		return nil, storeErr("count orders", err, "")
	}
	return &CustomerView{Customer: *c, Account: *acc, OrderCount: n}, nil
}

func (s *CustomerService) CreateProfile(ctx context.Context, caller Caller, req transport.CustomerProfileRequest) (*CustomerView, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}

	exists, err := s.Repo.CustomerExistsForAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, storeErr("check customer", err, "")
	}
	if exists {
		return nil, newErr(ErrConflict, "Customer profile already exists for this user.")
	}

	c := &models.Customer{
		AccountID:  caller.AccountID,
		Phone:      optionalText(req.PhoneNumber),
		Address:    optionalText(req.Address),
		City:       optionalText(req.City),
		PostalCode: optionalText(req.PostalCode),
		Country:    optionalText(req.Country),
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newErr(ErrConflict, "Customer profile already exists for this user.")
		}
		return nil, storeErr("create customer", err, "")
	}
	return s.view(ctx, c)
}

// UpdateProfile overwrites only the fields sent with a non-blank value.
func (s *CustomerService) UpdateProfile(ctx context.Context, caller Caller, req transport.CustomerProfileRequest) (*CustomerView, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}

	c, err := s.Repo.GetCustomerByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, storeErr("get customer", err, "Customer profile not found.")
	}

	fields := map[string]any{}
	setNonBlank(fields, "phone", req.PhoneNumber, &c.Phone)
	setNonBlank(fields, "address", req.Address, &c.Address)
	setNonBlank(fields, "city", req.City, &c.City)
	setNonBlank(fields, "postal_code", req.PostalCode, &c.PostalCode)
	setNonBlank(fields, "country", req.Country, &c.Country)

	if err := s.Repo.UpdateCustomer(ctx, c.ID, fields); err != nil {
		return nil, storeErr("update customer", err, "Customer profile not found.")
	}
	return s.view(ctx, c)
}

func setNonBlank(fields map[string]any, col string, in *string, dst **string) {
	if in == nil {
		return
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		return
	}
	fields[col] = v
	*dst = &v
}

func (s *CustomerService) GetProfileByAccount(ctx context.Context, caller Caller) (*CustomerView, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetCustomerByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, storeErr("get customer", err, "Customer profile not found.")
	}
	return s.view(ctx, c)
}

func (s *CustomerService) GetProfile(ctx context.Context, caller Caller, id uint, includeOrders bool) (*CustomerView, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetCustomer(ctx, id, includeOrders)
	if err != nil {
		return nil, storeErr("get customer", err, "Customer not found.")
	}
	if err := caller.RequireOwner(c.AccountID); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *CustomerService) ListProfiles(ctx context.Context, caller Caller) ([]CustomerView, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	cs, err := s.Repo.ListCustomers(ctx)
	if err != nil {
		return nil, storeErr("list customers", err, "")
	}

	out := make([]CustomerView, 0, len(cs))
	for i := range cs {
		v, err := s.view(ctx, &cs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *CustomerService) DeleteProfile(ctx context.Context, caller Caller, id uint) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if err := s.Repo.DeleteCustomer(ctx, id); err != nil {
		return storeErr("delete customer", err, "Customer not found.")
	}
	return nil
}
