package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrDuplicate        = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
}

type CategoryRepository interface {
	FindTopLevel(ctx context.Context, name string) (*domain.Category, error)
	FindChild(ctx context.Context, name string, parent primitive.ObjectID) (*domain.Category, error)
	// FindByName matches any level, deepest level first.
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
}

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
}

type CartItemRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.CartItem, error)
	FindByCart(ctx context.Context, cartID primitive.ObjectID) ([]domain.CartItem, error)
	// Increment adds one to the quantity of the line identified by key, or
	// inserts it with quantity 1 and the given unit prices. It reports
	// whether the line was created.
	Increment(ctx context.Context, key domain.CartItemKey, unitPrice, unitDiscountedPrice float64) (*domain.CartItem, bool, error)
	UpdateQuantity(ctx context.Context, id primitive.ObjectID, quantity int, unitPrice, unitDiscountedPrice float64) (*domain.CartItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCart(ctx context.Context, cartID primitive.ObjectID) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Review, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Rating, error)
}
