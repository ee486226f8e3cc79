package poller

import (
	"context"
	"encoding/json"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	Topic   = "checkout-outbox"
	GroupID = "shop-service-cart"
)

// CartClearer empties a user's cart.
type CartClearer interface {
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// checkoutEvent is the part of a checkout message the poller needs.
type checkoutEvent struct {
	CheckoutID string `json:"checkout_id"`
	UserID     string `json:"user_id"`
}

// Poller empties the cart of every user whose checkout completed.
type Poller struct {
	carts  CartClearer
	reader *kafka.Reader
}

func NewPoller(carts CartClearer, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{carts, reader}
}

func (p *Poller) Run(ctx context.Context) {
	logger.L().Info("checkout poller started", "topic", Topic, "group", GroupID)
	for {
		if ctx.Err() != nil {
			return
		}
		p.getMessageAndClearCart(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		logger.L().Error("error closing reader", "error", err)
	}
}

func (p *Poller) getMessageAndClearCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.L().Error("error reading message", "error", err)
		}
		return
	}
	p.handle(ctx, m.Value)
}

func (p *Poller) handle(ctx context.Context, value []byte) {
	var event checkoutEvent
	if err := json.Unmarshal(value, &event); err != nil {
		logger.L().Warn("error parsing message", "error", err)
		return
	}
	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		logger.L().Warn("missing or invalid user_id", "checkout_id", event.CheckoutID, "user_id", event.UserID)
		return
	}

	err = p.carts.ClearCart(ctx, userID)
	switch {
	case err == nil:
		logger.L().Info("cart cleared after checkout", "checkout_id", event.CheckoutID, "user_id", event.UserID)
	case domain.KindOf(err) == domain.KindNotFound:
		logger.L().Info("no cart to clear", "checkout_id", event.CheckoutID, "user_id", event.UserID)
	default:
		logger.L().Error("failed to clear cart", "checkout_id", event.CheckoutID, "user_id", event.UserID, "error", err)
	}
}
