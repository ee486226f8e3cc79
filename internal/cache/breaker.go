package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache guards a CartCache with a circuit breaker. While the breaker
// is open calls fail fast with gobreaker.ErrOpenState and callers fall back
// to the store.
type BreakerCache struct {
	next CartCache
	cb   *gobreaker.CircuitBreaker[*domain.CartView]
}

type BreakerSettings struct {
	Name string
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func NewBreakerCache(next CartCache, st BreakerSettings) *BreakerCache {
	if st.Name == "" {
		st.Name = "cart-cache"
	}
	if st.ConsecutiveFailures == 0 {
		st.ConsecutiveFailures = 5
	}
	if st.OpenTimeout <= 0 {
		st.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*domain.CartView](gobreaker.Settings{
		Name:        st.Name,
		MaxRequests: 1,
		Timeout:     st.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= st.ConsecutiveFailures
		},
		// a miss is a healthy answer
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	})
	return &BreakerCache{next: next, cb: cb}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.CartView, error) {
	return b.cb.Execute(func() (*domain.CartView, error) {
		return b.next.Get(ctx, userID)
	})
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.CartView) error {
	_, err := b.cb.Execute(func() (*domain.CartView, error) {
		return nil, b.next.Set(ctx, userID, cart)
	})
	return err
}

// Delete bypasses the breaker so invalidations are never dropped.
func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	return b.next.Delete(ctx, userID)
}

func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}
