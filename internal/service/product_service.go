package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 100
)

type CreateProductRequest struct {
	Title               string        `json:"title" validate:"required"`
	Description         string        `json:"description" validate:"required"`
	Price               *float64      `json:"price" validate:"required,gte=0"`
	DiscountedPrice     float64       `json:"discountedPrice" validate:"gte=0"`
	DiscountPercent     float64       `json:"discountPersent" validate:"gte=0,lte=100"`
	Quantity            *int          `json:"quantity" validate:"required,gte=0"`
	Brand               string        `json:"brand"`
	Color               string        `json:"color"`
	Sizes               []domain.Size `json:"sizes"`
	ImageURL            string        `json:"imageUrl"`
	TopLevelCategory    string        `json:"topLevelCategory" validate:"required"`
	SecondLevelCategory string        `json:"secondLevelCategory" validate:"required"`
	ThirdLevelCategory  string        `json:"thirdLevelCategory" validate:"required"`
}

// UpdateProductRequest changes only the fields that are set.
type UpdateProductRequest struct {
	Title           *string        `json:"title" validate:"omitempty,min=1"`
	Description     *string        `json:"description"`
	Price           *float64       `json:"price" validate:"omitempty,gte=0"`
	DiscountedPrice *float64       `json:"discountedPrice" validate:"omitempty,gte=0"`
	DiscountPercent *float64       `json:"discountPersent" validate:"omitempty,gte=0,lte=100"`
	Quantity        *int           `json:"quantity" validate:"omitempty,gte=0"`
	Brand           *string        `json:"brand"`
	Color           *string        `json:"color"`
	Sizes           *[]domain.Size `json:"sizes"`
	ImageURL        *string        `json:"imageUrl"`
}

func (r UpdateProductRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(key string, present bool, v interface{}) {
		if present {
			fields[key] = v
		}
	}
	set("title", r.Title != nil, deref(r.Title))
	set("description", r.Description != nil, deref(r.Description))
	set("price", r.Price != nil, deref(r.Price))
	set("discounted_price", r.DiscountedPrice != nil, deref(r.DiscountedPrice))
	set("discount_percent", r.DiscountPercent != nil, deref(r.DiscountPercent))
	set("quantity", r.Quantity != nil, deref(r.Quantity))
	set("brand", r.Brand != nil, deref(r.Brand))
	set("color", r.Color != nil, deref(r.Color))
	set("sizes", r.Sizes != nil, deref(r.Sizes))
	set("image_url", r.ImageURL != nil, deref(r.ImageURL))
	return fields
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ProductQuery is the catalog listing request. Colors and Sizes are comma
// separated lists.
type ProductQuery struct {
	Category    string
	Colors      string
	Sizes       string
	MinPrice    float64
	MaxPrice    float64
	MinDiscount float64
	Sort        string
	Stock       string
	PageNumber  int
	PageSize    int
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{products: products, categories: categories}
}

func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, domain.Validation("Missing required fields in request data.")
	}

	category, err := s.categoryChain(ctx, req.TopLevelCategory, req.SecondLevelCategory, req.ThirdLevelCategory)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Title:           req.Title,
		Description:     req.Description,
		Price:           *req.Price,
		DiscountedPrice: req.DiscountedPrice,
		DiscountPercent: req.DiscountPercent,
		Quantity:        *req.Quantity,
		Brand:           req.Brand,
		Color:           req.Color,
		Sizes:           req.Sizes,
		ImageURL:        req.ImageURL,
		CategoryID:      category.ID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, upstream(ctx, "failed to create product", err)
	}
	product.Category = category

	logger.FromContext(ctx).Info("product created", "product_id", product.ID.Hex(), "category", category.Name)
	return product, nil
}

// CreateMultipleProducts creates the products in order and stops at the first
// failure. Products created before the failure are kept.
func (s *ProductService) CreateMultipleProducts(ctx context.Context, reqs []CreateProductRequest) ([]domain.Product, error) {
	created := make([]domain.Product, 0, len(reqs))
	for _, req := range reqs {
		product, err := s.CreateProduct(ctx, req)
		if err != nil {
			return created, err
		}
		created = append(created, *product)
	}
	return created, nil
}

// categoryChain gets or creates the three category levels and returns the
// third one.
func (s *ProductService) categoryChain(ctx context.Context, top, second, third string) (*domain.Category, error) {
	level1, err := s.getOrCreateCategory(ctx, top, nil, 1)
	if err != nil {
		return nil, err
	}
	level2, err := s.getOrCreateCategory(ctx, second, &level1.ID, 2)
	if err != nil {
		return nil, err
	}
	return s.getOrCreateCategory(ctx, third, &level2.ID, 3)
}

func (s *ProductService) getOrCreateCategory(ctx context.Context, name string, parent *primitive.ObjectID, level int) (*domain.Category, error) {
	find := func() (*domain.Category, error) {
		if parent == nil {
			return s.categories.FindTopLevel(ctx, name)
		}
		return s.categories.FindChild(ctx, name, *parent)
	}

	category, err := find()
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, upstream(ctx, "failed to load category", err)
	}

	category = &domain.Category{Name: name, ParentCategory: parent, Level: level}
	err = s.categories.Create(ctx, category)
	if errors.Is(err, repository.ErrDuplicate) {
		// another request created it first
		category, err = find()
	}
	if err != nil {
		return nil, upstream(ctx, "failed to create category", err)
	}
	return category, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*domain.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.products.Update(ctx, productID, req.fields())
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domain.NotFound("Product not found with id %s", id)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := parseID(id, "product")
	if err != nil {
		return err
	}

	err = s.products.Delete(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return domain.NotFound("Product not found with id %s", id)
	}
	if err != nil {
		return upstream(ctx, "failed to delete product", err)
	}
	logger.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}

func (s *ProductService) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domain.NotFound("Product not found with id %s", id)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load product", err)
	}

	products := []domain.Product{*product}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ProductService) GetAllProducts(ctx context.Context, q ProductQuery) (*domain.ProductPage, error) {
	filter := domain.ProductFilter{
		Colors:      splitList(q.Colors, true),
		Sizes:       splitList(q.Sizes, false),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinDiscount: q.MinDiscount,
		Stock:       q.Stock,
		Sort:        q.Sort,
		PageNumber:  q.PageNumber,
		PageSize:    q.PageSize,
	}
	if filter.PageNumber < 1 {
		filter.PageNumber = defaultPageNumber
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if int64(filter.PageNumber-1) > math.MaxInt64/int64(filter.PageSize) {
		return nil, domain.Validation("pageNumber out of range")
	}

	if q.Category != "" {
		category, err := s.categories.FindByName(ctx, q.Category)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return &domain.ProductPage{Content: []domain.Product{}, CurrentPage: 1, TotalPages: 0}, nil
		}
		if err != nil {
			return nil, upstream(ctx, "failed to load category", err)
		}
		filter.CategoryID = &category.ID
	}

	products, total, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, upstream(ctx, "failed to list products", err)
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Content:     products,
		CurrentPage: filter.PageNumber,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

func (s *ProductService) attachCategories(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}
	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return upstream(ctx, "failed to load categories", err)
	}

	byID := make(map[primitive.ObjectID]*domain.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for i := range products {
		products[i].Category = byID[products[i].CategoryID]
	}
	return nil
}

// splitList splits a comma separated list, dropping blanks and duplicates.
func splitList(raw string, lower bool) []string {
	if raw == "" {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if lower {
			part = strings.ToLower(part)
		}
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

