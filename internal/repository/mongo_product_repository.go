package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func (m mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.Sizes == nil {
		product.Sizes = []domain.Size{}
	}

	res, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (m mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	if err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Update sets the given bson fields on the product and returns the result.
func (m mongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*domain.Product, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product domain.Product
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (m mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m mongoProductRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	query := productQuery(filter)

	total, err := m.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := m.collection.Find(ctx, query, productFindOptions(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

func productQuery(filter domain.ProductFilter) bson.M {
	query := bson.M{}

	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}

	if len(filter.Colors) > 0 {
		quoted := make([]string, len(filter.Colors))
		for i, c := range filter.Colors {
			quoted[i] = regexp.QuoteMeta(c)
		}
		query["color"] = primitive.Regex{Pattern: strings.Join(quoted, "|"), Options: "i"}
	}

	if len(filter.Sizes) > 0 {
		query["sizes.name"] = bson.M{"$in": filter.Sizes}
	}

	// price range only applies when both ends are given
	if filter.MinPrice > 0 && filter.MaxPrice > 0 {
		query["discounted_price"] = bson.M{"$gte": filter.MinPrice, "$lte": filter.MaxPrice}
	}

	if filter.MinDiscount > 0 {
		query["discount_percent"] = bson.M{"$gt": filter.MinDiscount}
	}

	switch filter.Stock {
	case domain.StockIn:
		query["quantity"] = bson.M{"$gt": 0}
	case domain.StockOut:
		query["quantity"] = bson.M{"$lte": 0}
	}

	return query
}

func productFindOptions(filter domain.ProductFilter) *options.FindOptions {
	opts := options.Find()
	if filter.Sort != "" {
		direction := 1
		if filter.Sort == domain.SortPriceHigh {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: "discounted_price", Value: direction}, {Key: "_id", Value: 1}})
	}
	if filter.PageSize > 0 {
		page := filter.PageNumber
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64(page-1) * int64(filter.PageSize))
		opts.SetLimit(int64(filter.PageSize))
	}
	return opts
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(productsCollection),
	}
}
