package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func productFilter(c echo.Context) (repo.ProductFilter, error) {
	f := repo.ProductFilter{
		Name:   c.QueryParam("name"),
		Search: c.QueryParam("searchQuery"),
	}
	var err error
	if f.CategoryID, err = queryUintPtr(c, "categoryId"); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryDecimalPtr(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimalPtr(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.InStock, err = queryBoolPtr(c, "inStock"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f, err := productFilter(c)
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	page, size := pageParams(c)

	res, err := h.Svc.ListProducts(ctx, f, page, size)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	setPagination(c, res.Meta)
	return c.JSON(http.StatusOK, productPageResponse(res))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page, size := pageParams(c)
	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_products_error", err)
	}

	setPagination(c, res.Meta)
	return c.JSON(http.StatusOK, productPageResponse(res))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	includeReviews, err := queryBool(c, "includeReviews", false)
	if err != nil {
		return fail(l, "get_product_error", err)
	}

	v, err := h.Svc.GetProduct(ctx, id, includeReviews)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, productViewResponse(v))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_product_error", err)
	}

	p, err := h.Svc.CreateProduct(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, productResponse(p))
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	var req transport.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_product_error", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, callerFrom(c), id, req)
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	return c.JSON(http.StatusOK, productResponse(p))
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	var req transport.PatchProductRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "patch_product_error", err)
	}

	p, err := h.Svc.PartialUpdateProduct(ctx, callerFrom(c), id, req)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	return c.JSON(http.StatusOK, productResponse(p))
}

func (h *CatalogHTTP) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_stock")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_stock_error", err)
	}
	var req transport.StockUpdateRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_stock_error", err)
	}

	p, err := h.Svc.UpdateStock(ctx, callerFrom(c), id, *req.StockQuantity)
	if err != nil {
		return fail(l, "update_stock_error", err)
	}
	return c.JSON(http.StatusOK, productResponse(p))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_product_error", err)
	}
	if err := h.Svc.DeleteProduct(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}

	out := make([]transport.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, categoryResponse(&cats[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	includeProducts, err := queryBool(c, "includeProducts", false)
	if err != nil {
		return fail(l, "get_category_error", err)
	}

	v, err := h.Svc.GetCategory(ctx, id, includeProducts)
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, categoryResponse(v))
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_category_error", err)
	}

	cat, err := h.Svc.CreateCategory(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, categoryResponse(&service.CategoryView{Category: *cat}))
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update_category")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	var req transport.UpdateCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_category_error", err)
	}

	if _, err := h.Svc.UpdateCategory(ctx, callerFrom(c), id, req); err != nil {
		return fail(l, "update_category_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_category_error", err)
	}
	if err := h.Svc.DeleteCategory(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_category_error", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
