package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Account struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"          json:"id"`
	Username      string     `gorm:"size:50;uniqueIndex;not null"      json:"username"`
	Email         string     `gorm:"size:200;uniqueIndex;not null"     json:"email"`
	PasswordHash  string     `gorm:"not null"                          json:"-"`
	FirstName     string     `gorm:"size:100;not null"                 json:"firstName"`
	LastName      string     `gorm:"size:100;not null"                 json:"lastName"`
	Role          string     `gorm:"size:50;not null;default:User"     json:"role"`
	IsActive      bool       `gorm:"not null;default:true"             json:"isActive"`
	CreatedDate   time.Time  `gorm:"autoCreateTime"                    json:"createdAt"`
	LastLoginDate *time.Time `json:"lastLoginAt"`
	Customer      *Customer  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Customer struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	AccountID  uint    `gorm:"uniqueIndex;not null"      json:"userId"`
	Phone      *string `gorm:"size:20"                   json:"phoneNumber"`
	Address    *string `gorm:"size:300"                  json:"address"`
	City       *string `gorm:"size:100"                  json:"city"`
	PostalCode *string `gorm:"size:20"                   json:"postalCode"`
	Country    *string `gorm:"size:100"                  json:"country"`
	Orders     []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"size:500"                      json:"description"`
	IsActive    bool      `gorm:"not null;default:true"         json:"isActive"`
	CreatedDate time.Time `gorm:"autoCreateTime"                json:"createdDate"`
}

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name          string          `gorm:"size:100;not null;index"           json:"name"`
	Description   *string         `gorm:"size:500"                          json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"       json:"price"`
	StockQuantity int             `gorm:"not null;check:stock_quantity >= 0" json:"stockQuantity"`
	SKU           *string         `gorm:"column:sku;size:50;uniqueIndex"    json:"sku"`
	ImageURL      *string         `gorm:"column:image_url;size:255"         json:"imageUrl"`
	IsActive      bool            `gorm:"not null;default:true"             json:"isActive"`
	CreatedDate   time.Time       `gorm:"autoCreateTime"                    json:"createdDate"`
	UpdatedDate   *time.Time      `json:"updatedDate"`
	CategoryID    uint            `gorm:"not null;index"                    json:"categoryId"`
	Category      *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	Reviews       []Review        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

type Review struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"                                   json:"id"`
	Rating        int       `gorm:"not null;check:rating BETWEEN 1 AND 5"                      json:"rating"`
	Comment       *string   `gorm:"size:1000"                                                  json:"comment"`
	CustomerName  string    `gorm:"size:100;not null"                                          json:"customerName"`
	CustomerEmail string    `gorm:"size:200;not null;uniqueIndex:idx_review_product_email,priority:2" json:"-"`
	CreatedDate   time.Time `gorm:"autoCreateTime"                                             json:"createdDate"`
	IsApproved    bool      `gorm:"not null;default:false"                                     json:"isApproved"`
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_review_product_email,priority:1"   json:"productId"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderNumber     string          `gorm:"size:50;uniqueIndex;not null" json:"orderNumber"`
	OrderDate       time.Time       `gorm:"not null;index"               json:"orderDate"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"  json:"totalAmount"`
	Status          OrderStatus     `gorm:"size:20;not null;index"       json:"status"`
	Notes           *string         `gorm:"size:1000"                    json:"notes"`
	ShippingAddress *string         `gorm:"size:500"                     json:"shippingAddress"`
	StockReserved   bool            `gorm:"not null;default:false"       json:"-"`
	CustomerID      uint            `gorm:"not null;index"               json:"customerId"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems,omitempty"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Quantity  int             `gorm:"not null;check:quantity BETWEEN 1 AND 1000" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"               json:"unitPrice"`
	OrderID   uint            `gorm:"not null;index"                            json:"orderId"`
	ProductID uint            `gorm:"not null;index"                            json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID"                      json:"-"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&Account{},
		&Customer{},
		&Category{},
		&Product{},
		&Review{},
		&Order{},
		&OrderItem{},
	}
}
