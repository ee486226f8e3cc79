package service

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/shop-service/internal/cache"
	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type CartItemService struct {
	items    repository.CartItemRepository
	users    repository.UserRepository
	products repository.ProductRepository
	cache    cache.VersionedCartCache
}

func NewCartItemService(
	items repository.CartItemRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	cache cache.VersionedCartCache) *CartItemService {
	return &CartItemService{
		items:    items,
		users:    users,
		products: products,
		cache:    cache,
	}
}

func (s *CartItemService) FindCartItemByID(ctx context.Context, id string) (*domain.CartItem, error) {
	itemID, err := parseID(id, "cart item")
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	switch {
	case err == nil:
		item.Product = product
	case !errors.Is(err, repository.ErrProductNotFound):
		return nil, upstream(ctx, "failed to load product", err)
	}

	result := item.WithLineTotals()
	return &result, nil
}

// UpdateCartItem replaces the item's quantity and reprices it from the
// product's current prices. Only the user owning the item may update it.
func (s *CartItemService) UpdateCartItem(ctx context.Context, userID primitive.ObjectID, id string, req UpdateItemRequest) (*domain.CartItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	itemID, err := parseID(id, "cart item")
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, item.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domain.NotFound("User not found: %s", item.UserID.Hex())
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load cart item owner", err)
	}
	if owner.ID != userID {
		return nil, domain.Forbidden("You can't update this cart item")
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load product", err)
	}

	updated, err := s.items.UpdateQuantity(ctx, itemID, req.Quantity, product.Price, product.DiscountedPrice)
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, domain.NotFound("Cart item not found with id %s", id)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to update cart item", err)
	}

	invalidateCart(s.cache, userID)
	logger.FromContext(ctx).Info("cart item updated",
		"user_id", userID.Hex(), "cart_item_id", id, "quantity", updated.Quantity)

	updated.Product = product
	result := updated.WithLineTotals()
	return &result, nil
}

// RemoveCartItem deletes the item when it belongs to userID.
func (s *CartItemService) RemoveCartItem(ctx context.Context, userID primitive.ObjectID, id string) error {
	itemID, err := parseID(id, "cart item")
	if err != nil {
		return err
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return domain.Forbidden("You can't remove another user's item")
	}

	err = s.items.Delete(ctx, itemID)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return upstream(ctx, "failed to remove cart item", err)
	}

	invalidateCart(s.cache, userID)
	logger.FromContext(ctx).Info("cart item removed", "user_id", userID.Hex(), "cart_item_id", id)
	return nil
}

func (s *CartItemService) findItem(ctx context.Context, id primitive.ObjectID) (*domain.CartItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, domain.NotFound("Cart item not found with id %s", id.Hex())
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load cart item", err)
	}
	return item, nil
}
