package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/metrics"
)

const maxItemQuantity = 1000

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// ReserveStock takes ordered quantities out of product stock when the
	// order is placed. Cancelling returns them only for orders that were
	// placed this way.
	ReserveStock bool
	MaxPageSize  int
	Now          func() time.Time
}

type OrderPage struct {
	Items []models.Order
	Meta  util.PaginationMetadata
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NewOrderNumber formats ORD-<yyyyMMdd>-<8 uppercase hex chars>.
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), suffix)
}

func (s *OrderService) callerCustomer(ctx context.Context, caller Caller, missing error) (*models.Customer, error) {
	c, err := s.Repo.GetCustomerByAccount(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, missing
		}
		return nil, storeErr("get customer", err, "")
	}
	return c, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, caller Caller, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order")

	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, newErr(ErrValidation, "Order must contain at least one item.")
	}

	cust, err := s.callerCustomer(ctx, caller,
		newErr(ErrValidation, "Customer profile not found. Please create a customer profile first."))
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		if it.Quantity < 1 || it.Quantity > maxItemQuantity {
			return nil, newErr(ErrValidation, "Quantity must be between 1 and %d.", maxItemQuantity)
		}

		p, err := s.Repo.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, storeErr("get product", err, fmt.Sprintf("Product with ID %d not found.", it.ProductID))
		}
		if p.StockQuantity < it.Quantity {
			return nil, newErr(ErrValidation, "Insufficient stock for product '%s'. Available: %d, Requested: %d",
				p.Name, p.StockQuantity, it.Quantity)
		}

		item := models.OrderItem{ProductID: p.ID, Quantity: it.Quantity, UnitPrice: p.Price}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	now := s.now()
	order := &models.Order{
		OrderNumber:     NewOrderNumber(now),
		OrderDate:       now,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		Notes:           optionalText(req.Notes),
		ShippingAddress: optionalText(req.ShippingAddress),
		StockReserved:   s.ReserveStock,
		CustomerID:      cust.ID,
		Items:           items,
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			l.Warn("create_order_error", "status", 400, "reason", "stock changed during checkout", "error", err)
			return nil, newErr(ErrValidation, "Insufficient stock to complete the order. Please review the requested quantities.")
		}
		return nil, storeErr("create order", err, "")
	}

	metrics.RecordOrderPlaced()
	publish(ctx, s.Events, events.TopicOrders, order.ID, events.Event{
		Type:        events.OrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
	})
	l.Info("create_order_success", "order_id", order.ID, "order_number", order.OrderNumber)
	return order, nil
}

// loadOwned fetches the order and checks that caller owns it through their
// customer profile, unless caller is an admin.
func (s *OrderService) loadOwned(ctx context.Context, caller Caller, id uint, includeItems bool) (*models.Order, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}

	o, err := s.Repo.GetOrder(ctx, id, includeItems)
	if err != nil {
		return nil, storeErr("get order", err, "Order not found.")
	}
	if caller.IsAdmin() {
		return o, nil
	}

	cust, err := s.callerCustomer(ctx, caller, newErr(ErrForbidden, "access denied"))
	if err != nil {
		return nil, err
	}
	if cust.ID != o.CustomerID {
		return nil, newErr(ErrForbidden, "access denied")
	}
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller Caller, id uint, includeItems bool) (*models.Order, error) {
	return s.loadOwned(ctx, caller, id, includeItems)
}

func (s *OrderService) ListMyOrders(ctx context.Context, caller Caller) ([]models.Order, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	cust, err := s.callerCustomer(ctx, caller, newErr(ErrNotFound, "Customer profile not found."))
	if err != nil {
		return nil, err
	}

	orders, err := s.Repo.ListOrdersByCustomer(ctx, cust.ID)
	if err != nil {
		return nil, storeErr("list orders", err, "")
	}
	return orders, nil
}

func ParseOrderStatus(v string) (models.OrderStatus, error) {
	for _, st := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		if strings.EqualFold(v, string(st)) {
			return st, nil
		}
	}
	return "", newErr(ErrValidation, "Unknown order status '%s'.", v)
}

func (s *OrderService) ListOrders(ctx context.Context, caller Caller, status string, pageNumber, pageSize int) (*OrderPage, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	var filter *models.OrderStatus
	if strings.TrimSpace(status) != "" {
		st, err := ParseOrderStatus(strings.TrimSpace(status))
		if err != nil {
			return nil, err
		}
		filter = &st
	}

	pageNumber, pageSize = util.Clamp(pageNumber, pageSize, s.MaxPageSize)
	offset, limit := util.Calculate(pageNumber, pageSize)

	total, orders, err := s.Repo.ListOrders(ctx, filter, offset, limit)
	if err != nil {
		return nil, storeErr("list orders", err, "")
	}
	return &OrderPage{Items: orders, Meta: util.NewMetadata(total, pageNumber, pageSize)}, nil
}

// UpdateOrder sets the status to any known value without checking the
// transition. Notes and address change only when sent non-blank.
func (s *OrderService) UpdateOrder(ctx context.Context, caller Caller, id uint, req transport.UpdateOrderRequest) (*models.Order, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	st, err := ParseOrderStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"status": st}
	if v := optionalText(req.Notes); v != nil {
		fields["notes"] = *v
	}
	if v := optionalText(req.ShippingAddress); v != nil {
		fields["shipping_address"] = *v
	}

	if err := s.Repo.UpdateOrder(ctx, id, fields); err != nil {
		return nil, storeErr("update order", err, "Order not found.")
	}

	o, err := s.Repo.GetOrder(ctx, id, true)
	if err != nil {
		return nil, storeErr("reload order", err, "Order not found.")
	}
	publish(ctx, s.Events, events.TopicOrders, o.ID, events.Event{
		Type: events.OrderUpdated, OrderID: o.ID, OrderNumber: o.OrderNumber, Status: string(o.Status),
	})
	return o, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	o, err := s.loadOwned(ctx, caller, id, false)
	if err != nil {
		return nil, err
	}

	switch o.Status {
	case models.OrderStatusShipped, models.OrderStatusDelivered:
		return nil, newErr(ErrValidation, "Cannot cancel order that has been shipped or delivered.")
	case models.OrderStatusCancelled:
		return nil, newErr(ErrValidation, "Order is already cancelled.")
	}

	if err := s.Repo.CancelOrder(ctx, o.ID, o.Status); err != nil {
		if errors.Is(err, repo.ErrStaleState) {
			return nil, newErr(ErrConflict, "Order status changed concurrently. Please retry.")
		}
		return nil, storeErr("cancel order", err, "Order not found.")
	}
	o.Status = models.OrderStatusCancelled

	metrics.RecordOrderCancelled()
	publish(ctx, s.Events, events.TopicOrders, o.ID, events.Event{
		Type: events.OrderCancelled, OrderID: o.ID, OrderNumber: o.OrderNumber, Status: string(o.Status),
	})
	return o, nil
}
