package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/repotest"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type capturedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, ev any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, capturedEvent{Topic: topic, Key: key, Event: ev.(events.Event)})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type env struct {
	ctx       context.Context
	repo      *repo.GormRepo
	pub       *fakePublisher
	auth      *AuthService
	catalog   *CatalogService
	reviews   *ReviewService
	customers *CustomerService
	orders    *OrderService
	admin     *AdminService
	admin0    Caller
}

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()

	r := repotest.NewRepo(t)
	pub := &fakePublisher{}
	now := func() time.Time { return fixedNow }

	e := &env{
		ctx:  context.Background(),
		repo: r,
		pub:  pub,
		auth: &AuthService{
			Repo:   r,
			Events: pub,
			Now:    now,
			Tokens: &tokens.Issuer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour, Now: now},
		},
		catalog:   &CatalogService{Repo: r, Events: pub, MaxPageSize: 20, Now: now},
		reviews:   &ReviewService{Repo: r, Events: pub},
		customers: &CustomerService{Repo: r},
		orders:    &OrderService{Repo: r, Events: pub, MaxPageSize: 20, Now: now},
		admin:     &AdminService{Repo: r, Events: pub, Now: now},
	}
	adminAcc := e.account(t, "root", models.RoleAdmin)
	e.admin0 = Caller{AccountID: adminAcc.ID, Role: models.RoleAdmin}
	return e
}

func (e *env) account(t *testing.T, username, role string) *models.Account {
	t.Helper()
	acc := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "First" + username,
		LastName:     "Last" + username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.repo.CreateAccount(e.ctx, acc))
	return acc
}

// customer creates an account with a profile and returns a caller for it.
func (e *env) customer(t *testing.T, username string) (Caller, *models.Customer) {
	t.Helper()
	acc := e.account(t, username, models.RoleUser)
	c := &models.Customer{AccountID: acc.ID}
	require.NoError(t, e.repo.CreateCustomer(e.ctx, c))
	return Caller{AccountID: acc.ID, Role: models.RoleUser}, c
}

func (e *env) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, IsActive: true}
	require.NoError(t, e.repo.CreateCategory(e.ctx, c))
	return c
}

func (e *env) product(t *testing.T, name, price string, stock int, categoryID uint) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
		CategoryID:    categoryID,
	}
	require.NoError(t, e.repo.CreateProduct(e.ctx, p))
	return p
}

func strPtr(s string) *string { return &s }

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind, err.Error())
}
