package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

const DefaultTokenTTL = 48 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Key is one HS256 signing secret. ID ends up in the token's kid header.
type Key struct {
	ID     string
	Secret []byte
}

// TokenService signs with the current key and accepts tokens signed by the
// current or any previous key, so secrets can be rotated without logging
// every user out.
type TokenService struct {
	current  Key
	previous map[string]Key
	ttl      time.Duration
	now      func() time.Time
}

// KeyFromSecret derives a stable key id from the secret, so the same
// configured secret always maps to the same kid.
func KeyFromSecret(secret string) Key {
	sum := sha256.Sum256([]byte(secret))
	return Key{ID: hex.EncodeToString(sum[:4]), Secret: []byte(secret)}
}

func NewTokenService(current Key, previous []Key, ttl time.Duration) (*TokenService, error) {
	if len(current.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	prev := make(map[string]Key, len(previous))
	for _, k := range previous {
		if len(k.Secret) == 0 || k.ID == current.ID {
			continue
		}
		prev[k.ID] = k
	}
	return &TokenService{
		current:  current,
		previous: prev,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = s.current.ID
	signed, err := token.SignedString(s.current.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the user id carried by the token.
func (s *TokenService) Verify(tokenString string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims.UserID, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" || kid == s.current.ID {
		return s.current.Secret, nil
	}
	if k, ok := s.previous[kid]; ok {
		return k.Secret, nil
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}
