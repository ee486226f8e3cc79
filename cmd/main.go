package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/auth"
	c "github.com/fjod/go_cart/shop-service/internal/cache"
	"github.com/fjod/go_cart/shop-service/internal/config"
	h "github.com/fjod/go_cart/shop-service/internal/http"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/poller"
	"github.com/fjod/go_cart/shop-service/internal/repository"
	s "github.com/fjod/go_cart/shop-service/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	serve := &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API",
		Action: runServe,
	}

	cmd := &cli.Command{
		Name:   "shop-service",
		Usage:  "E-commerce API: catalog, carts, reviews and ratings",
		Action: runServe,
		Commands: []*cli.Command{
			serve,
			{
				Name:   "indexes",
				Usage:  "Create MongoDB indexes",
				Action: runIndexes,
			},
			{
				Name:  "seed",
				Usage: "Create products from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "path to a JSON array of products",
						Required: true,
					},
				},
				Action: runSeed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.L().Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*config.Config, *mongo.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(os.Stdout, cfg.LogLevel)

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, nil, err
	}
	logger.L().Info("connected to MongoDB", "database", cfg.MongoDBName)
	return cfg, db, nil
}

func disconnect(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Client().Disconnect(ctx); err != nil {
		logger.L().Warn("mongo disconnect error", "error", err)
	}
}

func runIndexes(ctx context.Context, _ *cli.Command) error {
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer disconnect(db)

	if err := repository.CreateIndexes(ctx, db); err != nil {
		return err
	}
	logger.L().Info("indexes created")
	return nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var reqs []s.CreateProductRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer disconnect(db)

	products := s.NewProductService(
		repository.NewMongoProductRepository(db),
		repository.NewMongoCategoryRepository(db),
	)
	created, err := products.CreateMultipleProducts(ctx, reqs)
	logger.L().Info("seed finished", "created", len(created), "requested", len(reqs))
	return err
}

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer disconnect(db)

	if err := repository.CreateIndexes(ctx, db); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// the breaker keeps requests off a dead Redis, so start anyway
		logger.L().Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
	} else {
		logger.L().Info("redis ping succeeded", "addr", cfg.RedisAddr)
	}
	// one versioned cache shared by every service that reads or invalidates carts
	cache := c.NewVersioned(c.NewBreakerCache(c.NewRedisCache(redisClient), c.BreakerSettings{Name: "cart-cache"}))

	previous := make([]auth.Key, 0, len(cfg.JWTPreviousSecrets))
	for _, secret := range cfg.JWTPreviousSecrets {
		previous = append(previous, auth.KeyFromSecret(secret))
	}
	tokens, err := auth.NewTokenService(auth.KeyFromSecret(cfg.JWTSecret), previous, cfg.JWTTTL)
	if err != nil {
		return err
	}

	users := repository.NewMongoUserRepository(db)
	products := repository.NewMongoProductRepository(db)
	items := repository.NewMongoCartItemRepository(db)

	cartService := s.NewCartService(repository.NewMongoCartRepository(db), items, products, cache)
	userService := s.NewUserService(users, tokens)

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}, h.Services{
		Auth:      s.NewAuthService(users, cartService, tokens),
		Users:     userService,
		Carts:     cartService,
		CartItems: s.NewCartItemService(items, users, products, cache),
		Products:  s.NewProductService(products, repository.NewMongoCategoryRepository(db)),
		Reviews:   s.NewReviewService(repository.NewMongoReviewRepository(db), products, users),
		Ratings:   s.NewRatingService(repository.NewMongoRatingRepository(db), products),
	})

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	if len(cfg.KafkaBrokers) > 0 {
		p := poller.NewPoller(cartService, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(runCtx)
	} else {
		logger.L().Info("KAFKA_BROKERS not set, checkout poller disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.L().Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.L().Info("shop service starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	logger.L().Info("shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.L().Info("server exited")
	return nil
}
