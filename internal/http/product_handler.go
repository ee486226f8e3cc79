package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products ProductService
	timeout  time.Duration
}

func NewProductHandler(products ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	page, err := h.products.GetAllProducts(ctx, q)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.products.FindProductByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req service.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.CreateProduct(ctx, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) CreateMany(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var reqs []service.CreateProductRequest
	if !decodeJSON(w, r, &reqs) {
		return
	}

	if _, err := h.products.CreateMultipleProducts(ctx, reqs); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponse{Message: "Products Created Successfully"})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req service.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.UpdateProduct(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.products.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted Successfully"})
}

type queryError struct {
	param string
}

func (e queryError) Error() string {
	return "invalid query parameter " + e.param
}

func parseProductQuery(values url.Values) (service.ProductQuery, error) {
	q := service.ProductQuery{
		Category: values.Get("category"),
		Colors:   values.Get("color"),
		Sizes:    values.Get("sizes"),
		Sort:     values.Get("sort"),
		Stock:    values.Get("stock"),
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"minPrice", &q.MinPrice},
		{"maxPrice", &q.MaxPrice},
		{"minDiscount", &q.MinDiscount},
	}
	for _, f := range floats {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, queryError{f.name}
		}
		*f.dst = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"pageNumber", &q.PageNumber},
		{"pageSize", &q.PageSize},
	}
	for _, i := range ints {
		raw := values.Get(i.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, queryError{i.name}
		}
		*i.dst = v
	}

	return q, nil
}
