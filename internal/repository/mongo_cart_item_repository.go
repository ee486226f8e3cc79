package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartItemRepository struct {
	collection *mongo.Collection
}

func (m mongoCartItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.CartItem, error) {
	var item domain.CartItem
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func (m mongoCartItemRepository) FindByCart(ctx context.Context, cartID primitive.ObjectID) ([]domain.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{"cart": cartID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}

	items := []domain.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func (m mongoCartItemRepository) Increment(
	ctx context.Context,
	key domain.CartItemKey,
	unitPrice, unitDiscountedPrice float64) (*domain.CartItem, bool, error) {

	item, err := m.upsertIncrement(ctx, key, unitPrice, unitDiscountedPrice)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced on insert and the unique index rejected one of
		// them. The line exists now, so the retry takes the update branch.
		item, err = m.upsertIncrement(ctx, key, unitPrice, unitDiscountedPrice)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to increment cart item: %w", err)
	}

	// quantity never drops below 1, so 1 after the increment means insert
	return item, item.Quantity == 1, nil
}

func (m mongoCartItemRepository) upsertIncrement(
	ctx context.Context,
	key domain.CartItemKey,
	unitPrice, unitDiscountedPrice float64) (*domain.CartItem, error) {

	now := time.Now()
	filter := bson.M{
		"cart":    key.CartID,
		"product": key.ProductID,
		"user_id": key.UserID,
		"size":    key.Size,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": 1},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"unit_price":            unitPrice,
			"unit_discounted_price": unitDiscountedPrice,
			"created_at":            now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var item domain.CartItem
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m mongoCartItemRepository) UpdateQuantity(
	ctx context.Context,
	id primitive.ObjectID,
	quantity int,
	unitPrice, unitDiscountedPrice float64) (*domain.CartItem, error) {

	update := bson.M{
		"$set": bson.M{
			"quantity":              quantity,
			"unit_price":            unitPrice,
			"unit_discounted_price": unitDiscountedPrice,
			"updated_at":            time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.CartItem
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return &item, nil
}

func (m mongoCartItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (m mongoCartItemRepository) DeleteByCart(ctx context.Context, cartID primitive.ObjectID) (int64, error) {
	result, err := m.collection.DeleteMany(ctx, bson.M{"cart": cartID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart items: %w", err)
	}
	return result.DeletedCount, nil
}

func NewMongoCartItemRepository(db *mongo.Database) CartItemRepository {
	return &mongoCartItemRepository{
		collection: db.Collection(cartItemsCollection),
	}
}
