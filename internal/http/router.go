package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

type Services struct {
	Auth      AuthService
	Users     UserService
	Carts     CartService
	CartItems CartItemService
	Products  ProductService
	Reviews   ReviewService
	Ratings   RatingService
}

func NewRouter(cfg RouterConfig, s Services) http.Handler {
	authHandler := NewAuthHandler(s.Auth, cfg.RequestTimeout)
	userHandler := NewUserHandler(s.Users, cfg.RequestTimeout)
	productHandler := NewProductHandler(s.Products, cfg.RequestTimeout)
	cartHandler := NewCartHandler(s.Carts, s.CartItems, cfg.RequestTimeout)
	reviewHandler := NewReviewHandler(s.Reviews, s.Ratings, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.List)
		r.Get("/products/id/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.Users))

			r.Get("/users/profile", userHandler.Profile)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/", cartHandler.CreateCart)
				r.Put("/add", cartHandler.AddItem)
				r.Delete("/", cartHandler.ClearCart)
			})
			r.Route("/cart_items", func(r chi.Router) {
				r.Put("/{id}", cartHandler.UpdateItem)
				r.Delete("/{id}", cartHandler.RemoveItem)
			})

			r.Post("/reviews/create", reviewHandler.CreateReview)
			r.Get("/reviews/product/{productId}", reviewHandler.ListReviews)
			r.Post("/ratings/create", reviewHandler.CreateRating)
			r.Get("/ratings/product/{productId}", reviewHandler.ListRatings)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))

				r.Get("/users", userHandler.List)
				r.Route("/admin/products", func(r chi.Router) {
					r.Post("/", productHandler.Create)
					r.Post("/creates", productHandler.CreateMany)
					r.Put("/{id}", productHandler.Update)
					r.Delete("/{id}", productHandler.Delete)
				})
			})
		})
	})

	return otelhttp.NewHandler(r, "shop-service")
}
