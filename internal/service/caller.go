package service

import "github.com/Skotchmaster/storefront/internal/models"

// Caller is the identity a request acts as. The zero value is anonymous.
type Caller struct {
	AccountID uint
	Role      string
}

func (c Caller) Authenticated() bool { return c.AccountID != 0 }

func (c Caller) IsAdmin() bool { return c.Authenticated() && c.Role == models.RoleAdmin }

func (c Caller) RequireAuthenticated() error {
	if !c.Authenticated() {
		return newErr(ErrUnauthenticated, "authentication required")
	}
	return nil
}

func (c Caller) RequireAdmin() error {
	if err := c.RequireAuthenticated(); err != nil {
		return err
	}
	if !c.IsAdmin() {
		return newErr(ErrForbidden, "admin access required")
	}
	return nil
}

// RequireOwner allows admins and the account that owns the resource.
func (c Caller) RequireOwner(ownerAccountID uint) error {
	if err := c.RequireAuthenticated(); err != nil {
		return err
	}
	if c.IsAdmin() || c.AccountID == ownerAccountID {
		return nil
	}
	return newErr(ErrForbidden, "access denied")
}
