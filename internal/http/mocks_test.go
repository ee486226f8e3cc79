package http

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUsers struct {
	byToken map[string]*domain.User
	all     []domain.User
	err     error
}

func (m *mockUsers) GetUserProfile(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Token not found.")
	}
	user, ok := m.byToken[token]
	if !ok {
		return nil, domain.Unauthorized("invalid token")
	}
	return user, nil
}

func (m *mockUsers) GetAllUsers(context.Context) ([]domain.User, error) {
	return m.all, m.err
}

type mockAuth struct {
	session *service.Session
	err     error
	signup  service.SignupRequest
}

func (m *mockAuth) Signup(_ context.Context, req service.SignupRequest) (*service.Session, error) {
	m.signup = req
	return m.session, m.err
}

func (m *mockAuth) Signin(_ context.Context, _ service.SigninRequest) (*service.Session, error) {
	return m.session, m.err
}

type mockCarts struct {
	m       sync.Mutex
	view    *domain.CartView
	item    *domain.CartItem
	err     error
	userID  primitive.ObjectID
	added   service.AddItemRequest
	cleared bool
}

func (m *mockCarts) CreateCart(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.userID = userID
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Cart{ID: primitive.NewObjectID(), UserID: userID}, nil
}

func (m *mockCarts) FindUserCart(_ context.Context, userID primitive.ObjectID) (*domain.CartView, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.userID = userID
	return m.view, m.err
}

func (m *mockCarts) AddCartItem(_ context.Context, userID primitive.ObjectID, req service.AddItemRequest) (*domain.CartItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.userID = userID
	m.added = req
	return m.item, m.err
}

func (m *mockCarts) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.userID = userID
	m.cleared = true
	return m.err
}

type mockCartItems struct {
	item    *domain.CartItem
	err     error
	userID  primitive.ObjectID
	id      string
	updated service.UpdateItemRequest
}

func (m *mockCartItems) UpdateCartItem(_ context.Context, userID primitive.ObjectID, id string, req service.UpdateItemRequest) (*domain.CartItem, error) {
	m.userID, m.id, m.updated = userID, id, req
	return m.item, m.err
}

func (m *mockCartItems) RemoveCartItem(_ context.Context, userID primitive.ObjectID, id string) error {
	m.userID, m.id = userID, id
	return m.err
}

type mockProducts struct {
	product *domain.Product
	page    *domain.ProductPage
	query   service.ProductQuery
	created int
	err     error
}

func (m *mockProducts) CreateProduct(_ context.Context, _ service.CreateProductRequest) (*domain.Product, error) {
	m.created++
	return m.product, m.err
}

func (m *mockProducts) CreateMultipleProducts(_ context.Context, reqs []service.CreateProductRequest) ([]domain.Product, error) {
	m.created += len(reqs)
	return nil, m.err
}

func (m *mockProducts) UpdateProduct(_ context.Context, _ string, _ service.UpdateProductRequest) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockProducts) DeleteProduct(context.Context, string) error {
	return m.err
}

func (m *mockProducts) FindProductByID(context.Context, string) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockProducts) GetAllProducts(_ context.Context, q service.ProductQuery) (*domain.ProductPage, error) {
	m.query = q
	return m.page, m.err
}

type mockReviews struct {
	reviews []domain.Review
	err     error
}

func (m *mockReviews) CreateReview(_ context.Context, user *domain.User, req service.CreateReviewRequest) (*domain.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Review{UserID: user.ID, Review: req.Review}, nil
}

func (m *mockReviews) GetAllReviews(context.Context, string) ([]domain.Review, error) {
	return m.reviews, m.err
}

type mockRatings struct {
	err error
}

func (m *mockRatings) CreateRating(_ context.Context, user *domain.User, req service.CreateRatingRequest) (*domain.Rating, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Rating{UserID: user.ID, Rating: *req.Rating}, nil
}

func (m *mockRatings) GetAllRatings(context.Context, string) ([]domain.Rating, error) {
	return []domain.Rating{}, m.err
}
