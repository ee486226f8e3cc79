package http

import (
	"context"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handlers depend on these rather than on the concrete services.

type AuthService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*service.Session, error)
	Signin(ctx context.Context, req service.SigninRequest) (*service.Session, error)
}

type UserService interface {
	GetUserProfile(ctx context.Context, token string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
}

type CartService interface {
	CreateCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	FindUserCart(ctx context.Context, userID primitive.ObjectID) (*domain.CartView, error)
	AddCartItem(ctx context.Context, userID primitive.ObjectID, req service.AddItemRequest) (*domain.CartItem, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type CartItemService interface {
	UpdateCartItem(ctx context.Context, userID primitive.ObjectID, id string, req service.UpdateItemRequest) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID primitive.ObjectID, id string) error
}

type ProductService interface {
	CreateProduct(ctx context.Context, req service.CreateProductRequest) (*domain.Product, error)
	CreateMultipleProducts(ctx context.Context, reqs []service.CreateProductRequest) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req service.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetAllProducts(ctx context.Context, q service.ProductQuery) (*domain.ProductPage, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, user *domain.User, req service.CreateReviewRequest) (*domain.Review, error)
	GetAllReviews(ctx context.Context, productID string) ([]domain.Review, error)
}

type RatingService interface {
	CreateRating(ctx context.Context, user *domain.User, req service.CreateRatingRequest) (*domain.Rating, error)
	GetAllRatings(ctx context.Context, productID string) ([]domain.Rating, error)
}
