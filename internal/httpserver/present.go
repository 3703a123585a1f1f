package httpserver

import (
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

func accountResponse(a *models.Account) transport.AccountResponse {
	return transport.AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Role:        a.Role,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedDate,
		LastLoginAt: a.LastLoginDate,
	}
}

func productResponse(p *models.Product) transport.ProductResponse {
	out := transport.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		CreatedDate:   p.CreatedDate,
		UpdatedDate:   p.UpdatedDate,
		CategoryID:    p.CategoryID,
	}
	if p.Category != nil {
		name := p.Category.Name
		out.CategoryName = &name
	}
	return out
}

func productViewResponse(v *service.ProductView) transport.ProductResponse {
	out := productResponse(&v.Product)
	out.NumberOfReviews = v.ReviewCount
	out.AverageRating = v.AverageRating
	if v.Reviews != nil {
		out.Reviews = make([]transport.ReviewResponse, 0, len(v.Reviews))
		for i := range v.Reviews {
			out.Reviews = append(out.Reviews, reviewResponse(&v.Reviews[i]))
		}
	}
	return out
}

func productPageResponse(page *service.ProductPage) []transport.ProductResponse {
	out := make([]transport.ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, productViewResponse(&page.Items[i]))
	}
	return out
}

func categoryResponse(v *service.CategoryView) transport.CategoryResponse {
	out := transport.CategoryResponse{
		ID:               v.Category.ID,
		Name:             v.Category.Name,
		Description:      v.Category.Description,
		IsActive:         v.Category.IsActive,
		CreatedDate:      v.Category.CreatedDate,
		NumberOfProducts: v.ProductCount,
	}
	if v.Products != nil {
		out.Products = make([]transport.ProductResponse, 0, len(v.Products))
		for i := range v.Products {
			out.Products = append(out.Products, productResponse(&v.Products[i]))
		}
	}
	return out
}

func reviewResponse(r *models.Review) transport.ReviewResponse {
	return transport.ReviewResponse{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CustomerName: r.CustomerName,
		CreatedDate:  r.CreatedDate,
		IsApproved:   r.IsApproved,
		ProductID:    r.ProductID,
	}
}

func reviewsResponse(rs []models.Review) []transport.ReviewResponse {
	out := make([]transport.ReviewResponse, 0, len(rs))
	for i := range rs {
		out = append(out, reviewResponse(&rs[i]))
	}
	return out
}

func customerResponse(v *service.CustomerView) transport.CustomerResponse {
	out := transport.CustomerResponse{
		ID:             v.Customer.ID,
		UserID:         v.Customer.AccountID,
		FirstName:      v.Account.FirstName,
		LastName:       v.Account.LastName,
		Email:          v.Account.Email,
		Username:       v.Account.Username,
		CreatedDate:    v.Account.CreatedDate,
		IsActive:       v.Account.IsActive,
		PhoneNumber:    v.Customer.Phone,
		Address:        v.Customer.Address,
		City:           v.Customer.City,
		PostalCode:     v.Customer.PostalCode,
		Country:        v.Customer.Country,
		NumberOfOrders: v.OrderCount,
	}
	if v.Customer.Orders != nil {
		out.Orders = ordersResponse(v.Customer.Orders)
	}
	return out
}

func bareCustomerResponse(c *models.Customer, a *models.Account) *transport.CustomerResponse {
	if c == nil {
		return nil
	}
	out := customerResponse(&service.CustomerView{Customer: *c, Account: *a})
	return &out
}

func orderResponse(o *models.Order) transport.OrderResponse {
	out := transport.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		Notes:           o.Notes,
		ShippingAddress: o.ShippingAddress,
		CustomerID:      o.CustomerID,
		OrderItems:      make([]transport.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.OrderItems = append(out.OrderItems, transport.OrderItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.LineTotal(),
		})
	}
	return out
}

func ordersResponse(orders []models.Order) []transport.OrderResponse {
	out := make([]transport.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderResponse(&orders[i]))
	}
	return out
}
