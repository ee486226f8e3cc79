package service

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/auth"
	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/repository"
)

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Mobile    string `json:"mobile"`
	Gender    string `json:"gender"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what signup and signin hand back to the client.
type Session struct {
	JWT     string       `json:"jwt"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	carts  *CartService
	tokens TokenIssuer
}

func NewAuthService(users repository.UserRepository, carts *CartService, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, carts: carts, tokens: tokens}
}

// Signup registers a customer, gives them an empty cart and signs them in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.Conflict("user already exist with email: %s", email)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, upstream(ctx, "failed to look up user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, upstream(ctx, "failed to hash password", err)
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  hash,
		Role:      domain.RoleCustomer,
		Mobile:    req.Mobile,
		Gender:    req.Gender,
		CreatedAt: time.Now().UTC(),
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, domain.Conflict("user already exist with email: %s", email)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to create user", err)
	}

	if _, err := s.carts.CreateCart(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, upstream(ctx, "failed to issue token", err)
	}

	logger.FromContext(ctx).Info("user signed up", "user_id", user.ID.Hex())
	return &Session{JWT: token, Message: "signup success", User: user}, nil
}

func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domain.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, upstream(ctx, "failed to look up user", err)
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		return nil, domain.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, upstream(ctx, "failed to issue token", err)
	}
	return &Session{JWT: token, Message: "signin success", User: user}, nil
}
