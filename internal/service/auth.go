package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Events events.Publisher
	Now    func() time.Time
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginResult struct {
	Token     string
	Account   *models.Account
	ExpiresAt time.Time
}

type AccountWithProfile struct {
	Account  *models.Account
	Customer *models.Customer
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, newErr(ErrValidation, "Username, email and password are required.")
	}

	exists, err := s.Repo.AccountExists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, storeErr("check account", err, "")
	}
	if exists {
		return nil, newErr(ErrConflict, "Username or email already exists.")
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	acc := &models.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.Repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newErr(ErrConflict, "Username or email already exists.")
		}
		return nil, storeErr("create account", err, "")
	}

	publish(ctx, s.Events, events.TopicUsers, acc.ID, events.Event{Type: events.UserRegistered, AccountID: acc.ID})
	l.Info("register_success", "account_id", acc.ID)
	return acc, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, newErr(ErrValidation, "Username and password are required.")
	}

	acc, err := s.Repo.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, newErr(ErrUnauthenticated, "Invalid username or password.")
		}
		return nil, storeErr("get account", err, "")
	}
	if !acc.IsActive || !hash.CheckPassword(acc.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials or inactive account")
		return nil, newErr(ErrUnauthenticated, "Invalid username or password.")
	}

	now := s.now()
	if err := s.Repo.TouchLastLogin(ctx, acc.ID, now); err != nil {
		return nil, storeErr("update last login", err, "")
	}
	acc.LastLoginDate = &now

	token, exp, err := s.Tokens.Issue(tokens.Subject{
		AccountID: acc.ID,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Role:      acc.Role,
	}, now)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{Token: token, Account: acc, ExpiresAt: exp}, nil
}

func (s *AuthService) GetAccount(ctx context.Context, caller Caller, id uint) (*models.Account, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	acc, err := s.Repo.GetAccount(ctx, id)
	if err != nil {
		return nil, storeErr("get account", err, "User not found.")
	}
	return acc, nil
}

func (s *AuthService) ListAccounts(ctx context.Context, caller Caller) ([]models.Account, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	accs, err := s.Repo.ListAccounts(ctx)
	if err != nil {
		return nil, storeErr("list accounts", err, "")
	}
	return accs, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, caller Caller, id uint) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if err := s.Repo.DeleteAccount(ctx, id); err != nil {
		return storeErr("delete account", err, "User not found.")
	}
	return nil
}

// GetAccountWithProfile returns the account and, when one exists, its
// customer profile. Only the owner or an admin may read it.
func (s *AuthService) GetAccountWithProfile(ctx context.Context, caller Caller, id uint) (*AccountWithProfile, error) {
	if err := caller.RequireOwner(id); err != nil {
		return nil, err
	}

	acc, err := s.Repo.GetAccount(ctx, id)
	if err != nil {
		return nil, storeErr("get account", err, "User not found.")
	}

	out := &AccountWithProfile{Account: acc}
	cust, err := s.Repo.GetCustomerByAccount(ctx, id)
	switch {
	case err == nil:
		out.Customer = cust
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, storeErr("get customer", err, "")
	}
	return out, nil
}
