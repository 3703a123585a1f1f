package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accounts

type RegisterRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Email     string `json:"email"     validate:"required,email,max=200"`
	Password  string `json:"password"  validate:"required,min=6,max=100"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AccountResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	User      AccountResponse `json:"user"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

type AccountWithProfileResponse struct {
	AccountResponse
	Customer *CustomerResponse `json:"customer"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,max=50"`
}

// Categories

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type CategoryResponse struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	Description      *string           `json:"description"`
	IsActive         bool              `json:"isActive"`
	CreatedDate      time.Time         `json:"createdDate"`
	NumberOfProducts int64             `json:"numberOfProducts"`
	Products         []ProductResponse `json:"products,omitempty"`
}

// Products

type CreateProductRequest struct {
	Name          string          `json:"name"          validate:"required,max=100"`
	Description   *string         `json:"description"   validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	SKU           *string         `json:"sku"           validate:"omitempty,max=50"`
	ImageURL      *string         `json:"imageUrl"      validate:"omitempty,max=255"`
	CategoryID    uint            `json:"categoryId"    validate:"required"`
}

type UpdateProductRequest struct {
	Name          string          `json:"name"          validate:"required,max=100"`
	Description   *string         `json:"description"   validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	SKU           *string         `json:"sku"           validate:"omitempty,max=50"`
	ImageURL      *string         `json:"imageUrl"      validate:"omitempty,max=255"`
	IsActive      *bool           `json:"isActive"`
	CategoryID    uint            `json:"categoryId"    validate:"required"`
}

// PatchProductRequest distinguishes absent fields (nil) from fields sent as
// an empty string.
type PatchProductRequest struct {
	Name          *string          `json:"name"          validate:"omitempty,max=100"`
	Description   *string          `json:"description"   validate:"omitempty,max=500"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity" validate:"omitempty,gte=0"`
	CategoryID    *uint            `json:"categoryId"`
	SKU           *string          `json:"sku"           validate:"omitempty,max=50"`
	ImageURL      *string          `json:"imageUrl"      validate:"omitempty,max=255"`
	IsActive      *bool            `json:"isActive"`
}

type StockUpdateRequest struct {
	StockQuantity *int `json:"stockQuantity" validate:"required,gte=0"`
}

type ProductResponse struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	StockQuantity   int              `json:"stockQuantity"`
	SKU             *string          `json:"sku"`
	ImageURL        *string          `json:"imageUrl"`
	IsActive        bool             `json:"isActive"`
	CreatedDate     time.Time        `json:"createdDate"`
	UpdatedDate     *time.Time       `json:"updatedDate"`
	CategoryID      uint             `json:"categoryId"`
	CategoryName    *string          `json:"categoryName"`
	NumberOfReviews int64            `json:"numberOfReviews"`
	AverageRating   float64          `json:"averageRating"`
	Reviews         []ReviewResponse `json:"reviews,omitempty"`
}

// Reviews

type CreateReviewRequest struct {
	Rating  int     `json:"rating"  validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

type ApproveReviewRequest struct {
	Approve *bool `json:"approve"`
}

type BulkReviewRequest struct {
	ReviewIDs []uint `json:"reviewIds" validate:"required,min=1"`
	Approve   bool   `json:"approve"`
}

type BulkReviewResponse struct {
	Requested int   `json:"requested"`
	Updated   int64 `json:"updated"`
}

type ReviewResponse struct {
	ID           uint      `json:"id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	CustomerName string    `json:"customerName"`
	CreatedDate  time.Time `json:"createdDate"`
	IsApproved   bool      `json:"isApproved"`
	ProductID    uint      `json:"productId"`
}

// Customers

type CustomerProfileRequest struct {
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=20"`
	Address     *string `json:"address"     validate:"omitempty,max=300"`
	City        *string `json:"city"        validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode"  validate:"omitempty,max=20"`
	Country     *string `json:"country"     validate:"omitempty,max=100"`
}

type CustomerResponse struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"userId"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Username       string          `json:"username"`
	CreatedDate    time.Time       `json:"createdDate"`
	IsActive       bool            `json:"isActive"`
	PhoneNumber    *string         `json:"phoneNumber"`
	Address        *string         `json:"address"`
	City           *string         `json:"city"`
	PostalCode     *string         `json:"postalCode"`
	Country        *string         `json:"country"`
	NumberOfOrders int64           `json:"numberOfOrders"`
	Orders         []OrderResponse `json:"orders,omitempty"`
}

// Orders

type OrderItemRequest struct {
	ProductID uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"  validate:"required,min=1,max=1000"`
}

type CreateOrderRequest struct {
	Notes           *string            `json:"notes"           validate:"omitempty,max=500"`
	ShippingAddress *string            `json:"shippingAddress" validate:"omitempty,max=300"`
	Items           []OrderItemRequest `json:"orderItems"      validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Status          string  `json:"status"          validate:"required"`
	ShippingAddress *string `json:"shippingAddress" validate:"omitempty,max=500"`
	Notes           *string `json:"notes"           validate:"omitempty,max=1000"`
}

type OrderItemResponse struct {
	ID         uint            `json:"id"`
	ProductID  uint            `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type OrderResponse struct {
	ID              uint                `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	OrderDate       time.Time           `json:"orderDate"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          string              `json:"status"`
	Notes           *string             `json:"notes"`
	ShippingAddress *string             `json:"shippingAddress"`
	CustomerID      uint                `json:"customerId"`
	OrderItems      []OrderItemResponse `json:"orderItems"`
}
