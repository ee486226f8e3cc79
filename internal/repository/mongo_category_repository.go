package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCategoryRepository struct {
	collection *mongo.Collection
}

func (m mongoCategoryRepository) FindTopLevel(ctx context.Context, name string) (*domain.Category, error) {
	return m.findOne(ctx, bson.M{"name": name, "level": 1})
}

func (m mongoCategoryRepository) FindChild(ctx context.Context, name string, parent primitive.ObjectID) (*domain.Category, error) {
	return m.findOne(ctx, bson.M{"name": name, "parent_category": parent})
}

func (m mongoCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return m.findOne(ctx, bson.M{"name": name}, options.FindOne().SetSort(bson.D{{Key: "level", Value: -1}}))
}

func (m mongoCategoryRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Category, error) {
	var category domain.Category
	if err := m.collection.FindOne(ctx, filter, opts...).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (m mongoCategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Category, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	categories := []domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (m mongoCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	res, err := m.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = id
	}
	return nil
}

func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{
		collection: db.Collection(categoriesCollection),
	}
}
