package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/metrics"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Reviews   *ReviewHTTP
	Customers *CustomerHTTP
	Orders    *OrderHTTP
	Admin     *AdminHTTP
	Bearer    *middleware.BearerAuth
	DB        *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	requireAuth := d.Bearer.RequireAuth
	requireAdmin := d.Bearer.RequireAdmin

	auth := e.Group("/authentication")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("", d.Auth.ListAccounts, requireAdmin)
	auth.GET("/:id", d.Auth.GetAccount, requireAdmin)
	auth.DELETE("/:id", d.Auth.DeleteAccount, requireAdmin)
	auth.GET("/:id/customer", d.Auth.GetAccountWithProfile, requireAuth)

	products := e.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, requireAdmin)
	products.PUT("/:id", d.Catalog.UpdateProduct, requireAdmin)
	products.PATCH("/:id", d.Catalog.PatchProduct, requireAdmin)
	products.DELETE("/:id", d.Catalog.DeleteProduct, requireAdmin)
	products.PATCH("/:id/stock", d.Catalog.UpdateStock, requireAdmin)

	reviews := e.Group("/products/:productId/reviews")
	reviews.GET("", d.Reviews.GetReviews, d.Bearer.Optional)
	reviews.GET("/:id", d.Reviews.GetReview)
	reviews.POST("", d.Reviews.CreateReview, requireAuth)
	reviews.PATCH("/:id/approve", d.Reviews.ApproveReview, requireAdmin)
	reviews.DELETE("/:id", d.Reviews.DeleteReview, requireAuth)

	categories := e.Group("/categories")
	categories.GET("", d.Catalog.GetCategories)
	categories.GET("/:id", d.Catalog.GetCategory)
	categories.POST("", d.Catalog.CreateCategory, requireAdmin)
	categories.PUT("/:id", d.Catalog.UpdateCategory, requireAdmin)
	categories.DELETE("/:id", d.Catalog.DeleteCategory, requireAdmin)

	customers := e.Group("/customers", requireAuth)
	customers.GET("", d.Customers.GetCustomers)
	customers.GET("/profile", d.Customers.GetMyProfile)
	customers.GET("/my-profile", d.Customers.GetMyProfile)
	customers.POST("/profile", d.Customers.CreateProfile)
	customers.PUT("/profile", d.Customers.UpdateProfile)
	customers.GET("/:id", d.Customers.GetCustomer)
	customers.DELETE("/:id", d.Customers.DeleteCustomer)

	orders := e.Group("/orders", requireAuth)
	orders.GET("", d.Orders.GetOrders)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("/my-orders", d.Orders.GetMyOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.PUT("/:id", d.Orders.UpdateOrder)
	orders.PATCH("/:id", d.Orders.UpdateOrder)
	orders.Match([]string{http.MethodPost, http.MethodPatch}, "/:id/cancel", d.Orders.CancelOrder)

	admin := e.Group("/admin", requireAdmin)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/users", d.Auth.ListAccounts)
	admin.PATCH("/users/:id/role", d.Admin.UpdateUserRole)
	admin.GET("/orders", d.Orders.GetOrders)
	admin.PATCH("/orders/:id/status", d.Orders.UpdateOrder)
	admin.GET("/reviews/pending", d.Admin.PendingReviews)
	admin.PATCH("/reviews/bulk-approve", d.Admin.BulkApproveReviews)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
		logging.FromContext(c.Request().Context()).Warn("readiness_failed", "status", 503, "reason", "database unreachable", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
