package service

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/cache"
	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required"`
	// Quantity is accepted for compatibility and ignored: every add counts one.
	Quantity int `json:"quantity"`
}

// cartLoadTimeout bounds a shared cart load independently of the caller that
// started it.
const cartLoadTimeout = 10 * time.Second

type CartService struct {
	carts    repository.CartRepository
	items    repository.CartItemRepository
	products repository.ProductRepository
	cache    cache.VersionedCartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(
	carts repository.CartRepository,
	items repository.CartItemRepository,
	products repository.ProductRepository,
	cache cache.VersionedCartCache) *CartService {
	return &CartService{
		carts:    carts,
		items:    items,
		products: products,
		cache:    cache,
	}
}

// CreateCart returns the user's cart, creating it when the user has none.
func (s *CartService) CreateCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, upstream(ctx, "failed to load cart", err)
	}

	cart = &domain.Cart{UserID: userID}
	err = s.carts.Create(ctx, cart)
	if errors.Is(err, repository.ErrDuplicate) {
		// created concurrently, the unique index kept it to one
		return s.loadCart(ctx, userID)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to create cart", err)
	}
	return cart, nil
}

// FindUserCart loads the cart with its items and the totals computed from them.
// Concurrent callers share one load; each stops waiting when its own ctx ends.
func (s *CartService) FindUserCart(ctx context.Context, userID primitive.ObjectID) (*domain.CartView, error) {
	key := userID.Hex()

	// Use singleflight to prevent multiple concurrent cache misses for same key
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartLoadTimeout)
		defer cancel()
		return s.loadView(loadCtx, userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.CartView), nil
	}
}

func (s *CartService) loadView(ctx context.Context, userID primitive.ObjectID) (*domain.CartView, error) {
	key := userID.Hex()

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		// cart is in cache, products are joined live
		view := *cached
		view.CartItems = make([]domain.CartItem, len(cached.CartItems))
		copy(view.CartItems, cached.CartItems)
		if err := s.attachProducts(ctx, view.CartItems); err != nil {
			return nil, err
		}
		return &view, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.FromContext(ctx).Warn("cache get error", "user_id", key, "error", err)
	}

	version := s.cache.Version(key)
	view, err := s.aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := withoutProducts(view)
	go func() {
		stored, errSet := s.cache.SetIfVersion(context.Background(), key, version, entry)
		if errSet != nil {
			logger.L().Warn("cache set error", "user_id", key, "error", errSet)
			return
		}
		if !stored {
			logger.L().Debug("cache fill skipped, cart changed during load", "user_id", key)
		}
	}()

	return view, nil
}

// withoutProducts copies view with the joined products dropped, so product
// edits never go stale in the cache.
func withoutProducts(view *domain.CartView) *domain.CartView {
	entry := *view
	entry.CartItems = make([]domain.CartItem, len(view.CartItems))
	for i, item := range view.CartItems {
		item.Product = nil
		entry.CartItems[i] = item
	}
	return &entry
}

func (s *CartService) aggregate(ctx context.Context, userID primitive.ObjectID) (*domain.CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByCart(ctx, cart.ID)
	if err != nil {
		return nil, upstream(ctx, "failed to load cart items", err)
	}
	if err := s.attachProducts(ctx, items); err != nil {
		return nil, err
	}

	return domain.NewCartView(*cart, items), nil
}

// attachProducts joins every item to its product in one query. Items whose
// product was deleted keep a nil Product.
func (s *CartService) attachProducts(ctx context.Context, items []domain.CartItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return upstream(ctx, "failed to load cart products", err)
	}
	byID := make(map[primitive.ObjectID]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return nil
}

func (s *CartService) loadCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, domain.NotFound("cart not found for user")
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load cart", err)
	}
	return cart, nil
}

// AddCartItem adds one unit of (product, size) to the user's cart. An existing
// line is incremented, otherwise a line is created at the product's current
// prices. The cart must already exist.
func (s *CartService) AddCartItem(ctx context.Context, userID primitive.ObjectID, req AddItemRequest) (*domain.CartItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load product", err)
	}

	key := domain.CartItemKey{
		CartID:    cart.ID,
		ProductID: product.ID,
		UserID:    userID,
		Size:      req.Size,
	}
	item, created, err := s.items.Increment(ctx, key, product.Price, product.DiscountedPrice)
	if err != nil {
		return nil, upstream(ctx, "failed to add cart item", err)
	}

	s.invalidateCache(userID)
	logger.FromContext(ctx).Info("cart item added",
		"user_id", userID.Hex(), "cart_item_id", item.ID.Hex(), "created", created, "quantity", item.Quantity)

	item.Product = product
	result := item.WithLineTotals()
	return &result, nil
}

// ClearCart removes every item from the user's cart and keeps the cart.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.items.DeleteByCart(ctx, cart.ID); err != nil {
		return upstream(ctx, "failed to clear cart", err)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID primitive.ObjectID) {
	invalidateCart(s.cache, userID)
}

func invalidateCart(c cache.VersionedCartCache, userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Delete(ctx, userID.Hex()); err != nil {
		logger.L().Warn("cache delete error", "user_id", userID.Hex(), "error", err)
	}
}
