package events

import (
	"context"
	"time"
)

const (
	TopicProducts = "product_events"
	TopicOrders   = "order_events"
	TopicReviews  = "review_events"
	TopicUsers    = "user_events"
)

const (
	ProductCreated      = "product_created"
	ProductUpdated      = "product_updated"
	ProductDeleted      = "product_deleted"
	ProductStockUpdated = "product_stock_updated"

	OrderCreated   = "order_created"
	OrderUpdated   = "order_updated"
	OrderCancelled = "order_cancelled"

	ReviewCreated  = "review_created"
	ReviewApproved = "review_approved"
	ReviewDeleted  = "review_deleted"

	UserRegistered  = "user_registered"
	UserRoleUpdated = "user_role_updated"
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	ProductID   uint   `json:"productId,omitempty"`
	OrderID     uint   `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	ReviewID    uint   `json:"reviewId,omitempty"`
	AccountID   uint   `json:"accountId,omitempty"`

	Status        string `json:"status,omitempty"`
	Role          string `json:"role,omitempty"`
	StockQuantity *int   `json:"stockQuantity,omitempty"`
	Approved      *bool  `json:"approved,omitempty"`
	TotalAmount   string `json:"totalAmount,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
