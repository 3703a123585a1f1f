package service

import (
	"context"
	"errors"
	"strings"
	"time"

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

type CatalogService struct {
	Repo        *repo.GormRepo
	Events      events.Publisher
	Index       ProductIndex
	MaxPageSize int
	Now         func() time.Time
}

type ProductView struct {
	Product       models.Product
	ReviewCount   int64
	AverageRating float64
	Reviews       []models.Review
}

type ProductPage struct {
	Items []ProductView
	Meta  util.PaginationMetadata
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *CatalogService) page(pageNumber, pageSize int) (int, int) {
	return util.Clamp(pageNumber, pageSize, s.MaxPageSize)
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, pageNumber, pageSize int) (*ProductPage, error) {
	pageNumber, pageSize = s.page(pageNumber, pageSize)
	offset, limit := util.Calculate(pageNumber, pageSize)

	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, storeErr("list products", err, "")
	}

	views, err := s.withStats(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: views, Meta: util.NewMetadata(total, pageNumber, pageSize)}, nil
}

// SearchProducts runs q against the search index when one is configured and
// falls back to the store's free-text filter otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, pageNumber, pageSize int) (*ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newErr(ErrValidation, "Search query is required.")
	}
	if s.Index == nil {
		metrics.RecordSearch("store")
		return s.ListProducts(ctx, repo.ProductFilter{Search: q}, pageNumber, pageSize)
	}

	metrics.RecordSearch("elasticsearch")
	pageNumber, pageSize = s.page(pageNumber, pageSize)
	offset, limit := util.Calculate(pageNumber, pageSize)

	total, ids, err := s.Index.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetActiveProductsByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load search hits", err, "")
	}

	views, err := s.withStats(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: views, Meta: util.NewMetadata(total, pageNumber, pageSize)}, nil
}

func (s *CatalogService) withStats(ctx context.Context, items []models.Product) ([]ProductView, error) {
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	stats, err := s.Repo.ApprovedReviewStats(ctx, ids)
	if err != nil {
		return nil, storeErr("review stats", err, "")
	}

	views := make([]ProductView, len(items))
	for i := range items {
		st := stats[items[i].ID]
		views[i] = ProductView{Product: items[i], ReviewCount: st.Count, AverageRating: st.Average}
	}
	return views, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint, includeReviews bool) (*ProductView, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err, "Product not found.")
	}

	view := &ProductView{Product: *p}
	if !includeReviews {
		stats, err := s.Repo.ApprovedReviewStats(ctx, []uint{id})
		if err != nil {
			return nil, storeErr("review stats", err, "")
		}
		view.ReviewCount = stats[id].Count
		view.AverageRating = stats[id].Average
		return view, nil
	}

	reviews, err := s.Repo.ListApprovedReviews(ctx, id)
	if err != nil {
		return nil, storeErr("list reviews", err, "")
	}
	view.Reviews = reviews
	view.ReviewCount = int64(len(reviews))
	view.AverageRating = averageRating(reviews)
	return view, nil
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint) error {
	ok, err := s.Repo.CategoryExists(ctx, id)
	if err != nil {
		return storeErr("check category", err, "")
	}
	if !ok {
		return newErr(ErrValidation, "Category with ID %d does not exist.", id)
	}
	return nil
}

func validPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return newErr(ErrValidation, "Price must be greater than 0.")
	}
	return nil
}

func validStock(q int) error {
	if q < 0 {
		return newErr(ErrValidation, "Stock quantity must be 0 or greater.")
	}
	return nil
}

// optionalText trims v and maps a blank value to nil.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller Caller, req transport.CreateProductRequest) (*models.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newErr(ErrValidation, "Product name is required.")
	}
	if err := validPrice(req.Price); err != nil {
		return nil, err
	}
	if err := validStock(req.StockQuantity); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:          name,
		Description:   optionalText(req.Description),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SKU:           optionalText(req.SKU),
		ImageURL:      optionalText(req.ImageURL),
		IsActive:      true,
		CategoryID:    req.CategoryID,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, storeErr("create product", err, "")
	}

	return s.afterProductWrite(ctx, p.ID, events.ProductCreated)
}

// UpdateProduct replaces every editable field. Optional text fields sent as
// null or blank are cleared.
func (s *CatalogService) UpdateProduct(ctx context.Context, caller Caller, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	cur, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err, "Product not found.")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newErr(ErrValidation, "Product name is required.")
	}
	if err := validPrice(req.Price); err != nil {
		return nil, err
	}
	if err := validStock(req.StockQuantity); err != nil {
		return nil, err
	}
	if req.CategoryID != cur.CategoryID {
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	fields := map[string]any{}
	setIfChanged(fields, "name", cur.Name != name, name)
	setText(fields, "description", cur.Description, optionalText(req.Description))
	setIfChanged(fields, "price", !cur.Price.Equal(req.Price), req.Price)
	setIfChanged(fields, "stock_quantity", cur.StockQuantity != req.StockQuantity, req.StockQuantity)
	setText(fields, "sku", cur.SKU, optionalText(req.SKU))
	setText(fields, "image_url", cur.ImageURL, optionalText(req.ImageURL))
	setIfChanged(fields, "is_active", cur.IsActive != active, active)
	setIfChanged(fields, "category_id", cur.CategoryID != req.CategoryID, req.CategoryID)

	return s.applyProductFields(ctx, cur, fields)
}

// PartialUpdateProduct applies only the fields present in req. For the
// nullable text fields an empty string clears the stored value.
func (s *CatalogService) PartialUpdateProduct(ctx context.Context, caller Caller, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	cur, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err, "Product not found.")
	}

	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		setIfChanged(fields, "name", name != "" && name != cur.Name, name)
	}
	if req.Description != nil {
		setText(fields, "description", cur.Description, optionalText(req.Description))
	}
	if req.Price != nil {
		if err := validPrice(*req.Price); err != nil {
			return nil, err
		}
		setIfChanged(fields, "price", !cur.Price.Equal(*req.Price), *req.Price)
	}
	if req.StockQuantity != nil {
		if err := validStock(*req.StockQuantity); err != nil {
			return nil, err
		}
		setIfChanged(fields, "stock_quantity", *req.StockQuantity != cur.StockQuantity, *req.StockQuantity)
	}
	if req.CategoryID != nil && *req.CategoryID != cur.CategoryID {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.SKU != nil {
		setText(fields, "sku", cur.SKU, optionalText(req.SKU))
	}
	if req.ImageURL != nil {
		setText(fields, "image_url", cur.ImageURL, optionalText(req.ImageURL))
	}
	if req.IsActive != nil {
		setIfChanged(fields, "is_active", *req.IsActive != cur.IsActive, *req.IsActive)
	}

	return s.applyProductFields(ctx, cur, fields)
}

func setIfChanged(fields map[string]any, col string, changed bool, v any) {
	if changed {
		fields[col] = v
	}
}

func setText(fields map[string]any, col string, cur, next *string) {
	switch {
	case cur == nil && next == nil:
	case cur != nil && next != nil && *cur == *next:
	case next == nil:
		fields[col] = nil
	default:
		fields[col] = *next
	}
}

func (s *CatalogService) applyProductFields(ctx context.Context, cur *models.Product, fields map[string]any) (*models.Product, error) {
	if len(fields) == 0 {
		logging.FromContext(ctx).Info("product_update_skipped", "product_id", cur.ID, "reason", "no changes")
		return cur, nil
	}

	fields["updated_date"] = s.now()
	if err := s.Repo.UpdateProduct(ctx, cur.ID, fields); err != nil {
		return nil, storeErr("update product", err, "Product not found.")
	}
	return s.afterProductWrite(ctx, cur.ID, events.ProductUpdated)
}

func (s *CatalogService) afterProductWrite(ctx context.Context, id uint, evType string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("reload product", err, "Product not found.")
	}

	syncIndex(ctx, s.Index, p)
	publish(ctx, s.Events, events.TopicProducts, p.ID, events.Event{Type: evType, ProductID: p.ID})
	return p, nil
}

func (s *CatalogService) UpdateStock(ctx context.Context, caller Caller, id uint, quantity int) (*models.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := validStock(quantity); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateProduct(ctx, id, map[string]any{
		"stock_quantity": quantity,
		"updated_date":   s.now(),
	}); err != nil {
		return nil, storeErr("update stock", err, "Product not found.")
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("reload product", err, "Product not found.")
	}
	syncIndex(ctx, s.Index, p)
	q := p.StockQuantity
	publish(ctx, s.Events, events.TopicProducts, id, events.Event{Type: events.ProductStockUpdated, ProductID: id, StockQuantity: &q})
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller Caller, id uint) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}

	inUse, err := s.Repo.ProductHasOrderItems(ctx, id)
	if err != nil {
		return storeErr("check order items", err, "")
	}
	if inUse {
		return newErr(ErrConflict, "Cannot delete a product that appears in existing orders. Deactivate it instead.")
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr("delete product", err, "Product not found.")
	}

	dropFromIndex(ctx, s.Index, id)
	publish(ctx, s.Events, events.TopicProducts, id, events.Event{Type: events.ProductDeleted, ProductID: id})
	return nil
}

// Categories

type CategoryView struct {
	Category     models.Category
	ProductCount int64
	Products     []models.Product
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.Repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, storeErr("list categories", err, "")
	}

	ids := make([]uint, len(cats))
	for i := range cats {
		ids[i] = cats[i].ID
	}
	counts, err := s.Repo.CountProductsByCategory(ctx, ids)
	if err != nil {
		return nil, storeErr("count products", err, "")
	}

	out := make([]CategoryView, len(cats))
	for i := range cats {
		out[i] = CategoryView{Category: cats[i], ProductCount: counts[cats[i].ID]}
	}
	return out, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint, includeProducts bool) (*CategoryView, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", err, "Category not found.")
	}

	counts, err := s.Repo.CountProductsByCategory(ctx, []uint{id})
	if err != nil {
		return nil, storeErr("count products", err, "")
	}
	view := &CategoryView{Category: *cat, ProductCount: counts[id]}

	if includeProducts {
		ps, err := s.Repo.ListActiveProductsByCategory(ctx, id)
		if err != nil {
			return nil, storeErr("list category products", err, "")
		}
		for i := range ps {
			ps[i].Category = cat
		}
		view.Products = ps
	}
	return view, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller Caller, req transport.CreateCategoryRequest) (*models.Category, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newErr(ErrValidation, "Category name is required.")
	}
	if err := s.requireUniqueCategoryName(ctx, name, 0); err != nil {
		return nil, err
	}

	cat := &models.Category{
		Name:        name,
		Description: optionalText(req.Description),
		IsActive:    true,
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newErr(ErrValidation, "A category with the name '%s' already exists.", name)
		}
		return nil, storeErr("create category", err, "")
	}
	return cat, nil
}

func (s *CatalogService) requireUniqueCategoryName(ctx context.Context, name string, excludeID uint) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, excludeID)
	if err != nil {
		return storeErr("check category name", err, "")
	}
	if taken {
		return newErr(ErrValidation, "A category with the name '%s' already exists.", name)
	}
	return nil
}

// UpdateCategory renames when a non-blank name is given, clears the
// description when it is sent blank and applies isActive when present.
func (s *CatalogService) UpdateCategory(ctx context.Context, caller Caller, id uint, req transport.UpdateCategoryRequest) (*models.Category, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	cur, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", err, "Category not found.")
	}

	fields := map[string]any{}
	if name := strings.TrimSpace(req.Name); name != "" && name != cur.Name {
		if err := s.requireUniqueCategoryName(ctx, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Description != nil {
		setText(fields, "description", cur.Description, optionalText(req.Description))
	}
	if req.IsActive != nil && *req.IsActive != cur.IsActive {
		fields["is_active"] = *req.IsActive
	}

	if err := s.Repo.UpdateCategory(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newErr(ErrValidation, "A category with the name '%s' already exists.", fields["name"])
		}
		return nil, storeErr("update category", err, "Category not found.")
	}
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("reload category", err, "Category not found.")
	}
	return cat, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, caller Caller, id uint) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}

	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		return storeErr("get category", err, "Category not found.")
	}
	counts, err := s.Repo.CountProductsByCategory(ctx, []uint{id})
	if err != nil {
		return storeErr("count products", err, "")
	}
	if counts[id] > 0 {
		return newErr(ErrValidation, "Cannot delete category that contains products. Please reassign or delete products first.")
	}

	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return storeErr("delete category", err, "Category not found.")
	}
	return nil
}
