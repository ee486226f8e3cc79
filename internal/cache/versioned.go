package cache

import (
	"context"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/fjod/go_cart/shop-service/internal/domain"
)

const versionStripes = 1024

// VersionedCartCache is a CartCache whose fills can be tied to the
// invalidations seen so far for a user.
type VersionedCartCache interface {
	CartCache
	Version(userID string) uint64
	SetIfVersion(ctx context.Context, userID string, version uint64, cart *domain.CartView) (bool, error)
}

// Versioned counts Delete calls per user so that a view computed before an
// invalidation is never left in the cache after it. Counters are striped by
// user id hash; a collision only drops a fill.
type Versioned struct {
	next     CartCache
	versions [versionStripes]atomic.Uint64
}

func NewVersioned(next CartCache) *Versioned {
	return &Versioned{next: next}
}

func (v *Versioned) stripe(userID string) *atomic.Uint64 {
	return &v.versions[xxhash.Sum64String(userID)%versionStripes]
}

func (v *Versioned) Version(userID string) uint64 {
	return v.stripe(userID).Load()
}

func (v *Versioned) Get(ctx context.Context, userID string) (*domain.CartView, error) {
	return v.next.Get(ctx, userID)
}

func (v *Versioned) Set(ctx context.Context, userID string, cart *domain.CartView) error {
	return v.next.Set(ctx, userID, cart)
}

// Delete bumps the user's version before removing the entry.
func (v *Versioned) Delete(ctx context.Context, userID string) error {
	v.stripe(userID).Add(1)
	return v.next.Delete(ctx, userID)
}

// SetIfVersion stores cart only if no Delete happened since version was read.
// A Delete that lands while the write is in flight removes the entry again.
func (v *Versioned) SetIfVersion(ctx context.Context, userID string, version uint64, cart *domain.CartView) (bool, error) {
	if v.Version(userID) != version {
		return false, nil
	}
	if err := v.next.Set(ctx, userID, cart); err != nil {
		return false, err
	}
	if v.Version(userID) != version {
		return false, v.next.Delete(ctx, userID)
	}
	return true, nil
}
