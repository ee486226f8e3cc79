package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviews ReviewService
	ratings RatingService
	timeout time.Duration
}

func NewReviewHandler(reviews ReviewService, ratings RatingService, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		ratings: ratings,
		timeout: timeout,
	}
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req service.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.reviews.CreateReview(ctx, user, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviews.GetAllReviews(ctx, chi.URLParam(r, "productId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req service.CreateRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rating, err := h.ratings.CreateRating(ctx, user, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rating)
}

func (h *ReviewHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ratings, err := h.ratings.GetAllRatings(ctx, chi.URLParam(r, "productId"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ratings)
}
