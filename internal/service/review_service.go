package service

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Review    string `json:"review" validate:"required,max=2000"`
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	users    repository.UserRepository
}

func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	users repository.UserRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users}
}

func (s *ReviewService) CreateReview(ctx context.Context, user *domain.User, req CreateReviewRequest) (*domain.Review, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	productID, err := requireProduct(ctx, s.products, req.ProductID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		UserID:    user.ID,
		ProductID: productID,
		Review:    req.Review,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, upstream(ctx, "failed to create review", err)
	}
	review.User = user
	return review, nil
}

// GetAllReviews lists the product's reviews with their authors.
func (s *ReviewService) GetAllReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.FindByProduct(ctx, id)
	if err != nil {
		return nil, upstream(ctx, "failed to list reviews", err)
	}
	if len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, upstream(ctx, "failed to load review authors", err)
	}
	byID := make(map[primitive.ObjectID]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range reviews {
		reviews[i].User = byID[reviews[i].UserID]
	}
	return reviews, nil
}

// requireProduct parses the id and checks the product exists.
func requireProduct(ctx context.Context, products repository.ProductRepository, id string) (primitive.ObjectID, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return primitive.NilObjectID, err
	}
	_, err = products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return primitive.NilObjectID, domain.NotFound("Product not found with id %s", id)
	}
	if err != nil {
		return primitive.NilObjectID, upstream(ctx, "failed to load product", err)
	}
	return productID, nil
}
