package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

type mongoReviewRepository struct {
	collection *mongo.Collection
}

func (m mongoReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	res, err := m.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = id
	}
	return nil
}

func (m mongoReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Review, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"product": productID}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	reviews := []domain.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{
		collection: db.Collection(reviewsCollection),
	}
}

type mongoRatingRepository struct {
	collection *mongo.Collection
}

func (m mongoRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	res, err := m.collection.InsertOne(ctx, rating)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		rating.ID = id
	}
	return nil
}

func (m mongoRatingRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Rating, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"product": productID}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	ratings := []domain.Rating{}
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

func NewMongoRatingRepository(db *mongo.Database) RatingRepository {
	return &mongoRatingRepository{
		collection: db.Collection(ratingsCollection),
	}
}
