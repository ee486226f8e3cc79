package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func (s *UserService) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domain.NotFound("User not found: %s", id.Hex())
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load user", err)
	}
	return user, nil
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domain.NotFound("User not found with email: %s", email)
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load user", err)
	}
	return user, nil
}

// GetUserProfile resolves the user a session token was issued to.
func (s *UserService) GetUserProfile(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Token not found.")
	}
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.Unauthorized("invalid token")
	}
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, domain.Unauthorized("invalid token")
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domain.Unauthorized("User not found.")
	}
	if err != nil {
		return nil, upstream(ctx, "failed to load user", err)
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, upstream(ctx, "failed to list users", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
