package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/cache"
	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockCartRepository struct {
	m     sync.RWMutex
	carts map[primitive.ObjectID]domain.Cart // by user
	err   error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: map[primitive.ObjectID]domain.Cart{}}
}

func (m *mockCartRepository) GetByUser(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return &c, nil
}

func (m *mockCartRepository) Create(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[cart.UserID]; ok {
		return repository.ErrDuplicate
	}
	cart.ID = primitive.NewObjectID()
	m.carts[cart.UserID] = *cart
	return nil
}

func (m *mockCartRepository) add(userID primitive.ObjectID) domain.Cart {
	c := domain.Cart{UserID: userID}
	_ = m.Create(context.Background(), &c)
	return c
}

type mockCartItemRepository struct {
	m     sync.RWMutex
	items map[primitive.ObjectID]domain.CartItem
	seq   time.Time
	err   error
}

func newMockCartItemRepository() *mockCartItemRepository {
	return &mockCartItemRepository{
		items: map[primitive.ObjectID]domain.CartItem{},
		seq:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockCartItemRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.CartItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	return &item, nil
}

func (m *mockCartItemRepository) FindByCart(_ context.Context, cartID primitive.ObjectID) ([]domain.CartItem, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	items := []domain.CartItem{}
	for _, item := range m.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *mockCartItemRepository) Increment(_ context.Context, key domain.CartItemKey, unitPrice, unitDiscountedPrice float64) (*domain.CartItem, bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	for id, item := range m.items {
		if item.CartID == key.CartID && item.ProductID == key.ProductID && item.UserID == key.UserID && item.Size == key.Size {
			item.Quantity++
			m.items[id] = item
			return &item, false, nil
		}
	}
	m.seq = m.seq.Add(time.Second)
	item := domain.CartItem{
		ID:                  primitive.NewObjectID(),
		CartID:              key.CartID,
		UserID:              key.UserID,
		ProductID:           key.ProductID,
		Size:                key.Size,
		Quantity:            1,
		UnitPrice:           unitPrice,
		UnitDiscountedPrice: unitDiscountedPrice,
		CreatedAt:           m.seq,
		UpdatedAt:           m.seq,
	}
	m.items[item.ID] = item
	return &item, true, nil
}

func (m *mockCartItemRepository) UpdateQuantity(_ context.Context, id primitive.ObjectID, quantity int, unitPrice, unitDiscountedPrice float64) (*domain.CartItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	item.Quantity = quantity
	item.UnitPrice = unitPrice
	item.UnitDiscountedPrice = unitDiscountedPrice
	m.items[id] = item
	return &item, nil
}

func (m *mockCartItemRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[id]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCartItemRepository) DeleteByCart(_ context.Context, cartID primitive.ObjectID) (int64, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *mockCartItemRepository) put(item domain.CartItem) domain.CartItem {
	m.m.Lock()
	defer m.m.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	m.seq = m.seq.Add(time.Second)
	item.CreatedAt = m.seq
	m.items[item.ID] = item
	return item
}

func (m *mockCartItemRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.items)
}

type mockProductRepository struct {
	m        sync.RWMutex
	products map[primitive.ObjectID]domain.Product
	filter   domain.ProductFilter
	total    int64
	err      error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: map[primitive.ObjectID]domain.Product{}}
}

func (m *mockProductRepository) add(p domain.Product) domain.Product {
	m.m.Lock()
	defer m.m.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepository) Create(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if v, ok := fields["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := fields["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := fields["discounted_price"]; ok {
		p.DiscountedPrice = v.(float64)
	}
	if v, ok := fields["quantity"]; ok {
		p.Quantity = v.(int)
	}
	m.products[id] = p
	return &p, nil
}

func (m *mockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

// Find records the filter and returns every stored product with the preset total.
func (m *mockProductRepository) Find(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	m.filter = filter
	out := []domain.Product{}
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, m.total, nil
}

type mockCategoryRepository struct {
	m          sync.RWMutex
	categories []domain.Category
	err        error
}

func (m *mockCategoryRepository) FindTopLevel(_ context.Context, name string) (*domain.Category, error) {
	return m.find(func(c domain.Category) bool { return c.Name == name && c.Level == 1 })
}

func (m *mockCategoryRepository) FindChild(_ context.Context, name string, parent primitive.ObjectID) (*domain.Category, error) {
	return m.find(func(c domain.Category) bool {
		return c.Name == name && c.ParentCategory != nil && *c.ParentCategory == parent
	})
}

func (m *mockCategoryRepository) FindByName(_ context.Context, name string) (*domain.Category, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var best *domain.Category
	for i := range m.categories {
		c := m.categories[i]
		if c.Name == name && (best == nil || c.Level > best.Level) {
			best = &c
		}
	}
	if best == nil {
		return nil, repository.ErrCategoryNotFound
	}
	return best, nil
}

func (m *mockCategoryRepository) find(match func(domain.Category) bool) (*domain.Category, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.categories {
		if match(c) {
			return &c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Category, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := []domain.Category{}
	for _, id := range ids {
		for _, c := range m.categories {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) Create(_ context.Context, c *domain.Category) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c.ID = primitive.NewObjectID()
	m.categories = append(m.categories, *c)
	return nil
}

func (m *mockCategoryRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.categories)
}

type mockUserRepository struct {
	m     sync.RWMutex
	users map[primitive.ObjectID]domain.User
	err   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[primitive.ObjectID]domain.User{}}
}

func (m *mockUserRepository) add(u domain.User) domain.User {
	m.m.Lock()
	defer m.m.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepository) Create(_ context.Context, u *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	m.users[u.ID] = *u
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) FindAll(context.Context) ([]domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type mockReviewRepository struct {
	m       sync.Mutex
	reviews []domain.Review
}

func (m *mockReviewRepository) Create(_ context.Context, r *domain.Review) error {
	m.m.Lock()
	defer m.m.Unlock()
	r.ID = primitive.NewObjectID()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *mockReviewRepository) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]domain.Review, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := []domain.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockRatingRepository struct {
	m       sync.Mutex
	ratings []domain.Rating
}

func (m *mockRatingRepository) Create(_ context.Context, r *domain.Rating) error {
	m.m.Lock()
	defer m.m.Unlock()
	r.ID = primitive.NewObjectID()
	m.ratings = append(m.ratings, *r)
	return nil
}

func (m *mockRatingRepository) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]domain.Rating, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := []domain.Rating{}
	for _, r := range m.ratings {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockCache struct {
	m       sync.RWMutex
	views   map[string]*domain.CartView
	deletes int
	err     error
}

func newMockCache() *mockCache {
	return &mockCache{views: map[string]*domain.CartView{}}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.CartView, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.views[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(_ context.Context, userID string, view *domain.CartView) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.views[userID] = view
	return m.err
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.views, userID)
	m.deletes++
	return m.err
}

func (m *mockCache) getView(userID string) *domain.CartView {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.views[userID]
}

func (m *mockCache) deleteCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.deletes
}

// gatedCache holds the first Set until release is closed.
type gatedCache struct {
	*mockCache
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedCache(next *mockCache) *gatedCache {
	return &gatedCache{mockCache: next, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedCache) Set(ctx context.Context, userID string, view *domain.CartView) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.mockCache.Set(ctx, userID, view)
}

// countingCartRepository counts GetByUser calls and can block them.
type countingCartRepository struct {
	*mockCartRepository
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (c *countingCartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.release != nil {
		<-c.release
	}
	return c.mockCartRepository.GetByUser(ctx, userID)
}

func (c *countingCartRepository) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var errInvalidFakeToken = errors.New("invalid token")

type fakeTokens struct {
	issued map[string]string // token -> user id
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]string{}}
}

func (f *fakeTokens) Issue(userID string) (string, error) {
	token := "token-" + userID
	f.issued[token] = userID
	return token, nil
}

func (f *fakeTokens) Verify(token string) (string, error) {
	id, ok := f.issued[token]
	if !ok {
		return "", errInvalidFakeToken
	}
	return id, nil
}
