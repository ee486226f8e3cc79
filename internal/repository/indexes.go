package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates the indexes every collection relies on. The unique
// ones enforce one cart per user and one line per (cart, product, user, size).
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		cartsCollection: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		cartItemsCollection: {
			{
				Keys: bson.D{
					{Key: "cart", Value: 1},
					{Key: "product", Value: 1},
					{Key: "user_id", Value: 1},
					{Key: "size", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "cart", Value: 1}, {Key: "created_at", Value: 1}},
			},
		},
		categoriesCollection: {
			{
				Keys: bson.D{
					{Key: "name", Value: 1},
					{Key: "parent_category", Value: 1},
					{Key: "level", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "discounted_price", Value: 1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "product", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ratingsCollection: {
			{Keys: bson.D{{Key: "product", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
