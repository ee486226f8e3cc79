package service

import (
	"context"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/repository"
)

type CreateRatingRequest struct {
	ProductID string `json:"productId" validate:"required"`
	// pointer so that a zero rating is accepted but a missing one is not
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type RatingService struct {
	ratings  repository.RatingRepository
	products repository.ProductRepository
}

func NewRatingService(ratings repository.RatingRepository, products repository.ProductRepository) *RatingService {
	return &RatingService{ratings: ratings, products: products}
}

func (s *RatingService) CreateRating(ctx context.Context, user *domain.User, req CreateRatingRequest) (*domain.Rating, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	productID, err := requireProduct(ctx, s.products, req.ProductID)
	if err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		UserID:    user.ID,
		ProductID: productID,
		Rating:    *req.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, upstream(ctx, "failed to create rating", err)
	}
	return rating, nil
}

func (s *RatingService) GetAllRatings(ctx context.Context, productID string) ([]domain.Rating, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.FindByProduct(ctx, id)
	if err != nil {
		return nil, upstream(ctx, "failed to list ratings", err)
	}
	return ratings, nil
}
