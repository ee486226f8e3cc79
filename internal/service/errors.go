package service

import (
	"context"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// upstream logs a store failure and hides its details from the caller.
func upstream(ctx context.Context, message string, err error) error {
	logger.FromContext(ctx).Error(message, "error", err)
	return domain.Upstream(message, err)
}

func parseID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.Validation("invalid %s id %q", what, id)
	}
	return oid, nil
}
