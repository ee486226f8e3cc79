package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/service"
)

type AuthHandler struct {
	auth    AuthService
	timeout time.Duration
}

func NewAuthHandler(auth AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		timeout: timeout,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req service.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Signup(ctx, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req service.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Signin(ctx, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}
