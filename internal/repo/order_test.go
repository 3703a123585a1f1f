package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/repo/repotest"
)

func seedProduct(t *testing.T, r *repo.GormRepo, stock int) (*models.Customer, *models.Product) {
	t.Helper()
	ctx := context.Background()

	acc := &models.Account{Username: "u", Email: "u@example.com", PasswordHash: "x", FirstName: "U", LastName: "V", Role: models.RoleUser, IsActive: true}
	require.NoError(t, r.CreateAccount(ctx, acc))
	cust := &models.Customer{AccountID: acc.ID}
	require.NoError(t, r.CreateCustomer(ctx, cust))

	cat := &models.Category{Name: "Tools", IsActive: true}
	require.NoError(t, r.CreateCategory(ctx, cat))
	p := &models.Product{Name: "Hammer", Price: decimal.RequireFromString("19.90"), StockQuantity: stock, CategoryID: cat.ID, IsActive: true}
	require.NoError(t, r.CreateProduct(ctx, p))
	return cust, p
}

func newOrder(custID, productID uint, qty int, number string, reserve bool) *models.Order {
	price := decimal.RequireFromString("19.90")
	return &models.Order{
		OrderNumber:   number,
		OrderDate:     time.Now().UTC(),
		TotalAmount:   price.Mul(decimal.NewFromInt(int64(qty))),
		Status:        models.OrderStatusPending,
		StockReserved: reserve,
		CustomerID:    custID,
		Items:         []models.OrderItem{{ProductID: productID, Quantity: qty, UnitPrice: price}},
	}
}

func TestCreateOrder_Reserve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)
	cust, p := seedProduct(t, r, 5)

	require.NoError(t, r.CreateOrder(ctx, newOrder(cust.ID, p.ID, 3, "ORD-1", true)))
	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)

	err = r.CreateOrder(ctx, newOrder(cust.ID, p.ID, 3, "ORD-2", true))
	require.ErrorIs(t, err, repo.ErrInsufficientStock)

	n, err := r.CountOrders(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)
}

func TestCreateOrder_NoReserveLeavesStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)
	cust, p := seedProduct(t, r, 5)

	require.NoError(t, r.CreateOrder(ctx, newOrder(cust.ID, p.ID, 3, "ORD-1", false)))
	require.NoError(t, r.CreateOrder(ctx, newOrder(cust.ID, p.ID, 3, "ORD-2", false)))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)
}

func TestCancelOrder_CompareAndSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)
	cust, p := seedProduct(t, r, 5)

	o := newOrder(cust.ID, p.ID, 4, "ORD-1", true)
	require.NoError(t, r.CreateOrder(ctx, o))

	require.ErrorIs(t, r.CancelOrder(ctx, o.ID, models.OrderStatusProcessing), repo.ErrStaleState)

	require.NoError(t, r.CancelOrder(ctx, o.ID, models.OrderStatusPending))
	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	require.ErrorIs(t, r.CancelOrder(ctx, o.ID, models.OrderStatusPending), repo.ErrStaleState)
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)
}

func TestCancelOrder_UnreservedLeavesStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)
	cust, p := seedProduct(t, r, 5)

	o := newOrder(cust.ID, p.ID, 3, "ORD-1", false)
	require.NoError(t, r.CreateOrder(ctx, o))
	require.NoError(t, r.CancelOrder(ctx, o.ID, models.OrderStatusPending))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)
}

func TestSumOrderTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := repotest.NewRepo(t)

	sum, err := r.SumOrderTotals(ctx, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	cust, p := seedProduct(t, r, 10)
	a := newOrder(cust.ID, p.ID, 2, "ORD-1", false)
	b := newOrder(cust.ID, p.ID, 1, "ORD-2", false)
	require.NoError(t, r.CreateOrder(ctx, a))
	require.NoError(t, r.CreateOrder(ctx, b))
	require.NoError(t, r.UpdateOrder(ctx, a.ID, map[string]any{"status": models.OrderStatusDelivered}))

	sum, err = r.SumOrderTotals(ctx, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, "39.80", sum.StringFixed(2))

	require.ErrorIs(t, r.UpdateOrder(ctx, 999, map[string]any{"status": models.OrderStatusShipped}), gorm.ErrRecordNotFound)
}
