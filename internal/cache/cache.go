package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/shop-service/internal/domain"
)

// CartCache stores the computed cart view of a user.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.CartView, error)
	Set(ctx context.Context, userID string, cart *domain.CartView) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
