package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Size struct {
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	DiscountedPrice float64            `bson:"discounted_price" json:"discountedPrice"`
	DiscountPercent float64            `bson:"discount_percent" json:"discountPersent"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Brand           string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Color           string             `bson:"color,omitempty" json:"color,omitempty"`
	Sizes           []Size             `bson:"sizes" json:"sizes"`
	ImageURL        string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CategoryID      primitive.ObjectID `bson:"category" json:"categoryId"`
	Category        *Category          `bson:"-" json:"category,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Category struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name           string              `bson:"name" json:"name"`
	ParentCategory *primitive.ObjectID `bson:"parent_category,omitempty" json:"parentCategory,omitempty"`
	Level          int                 `bson:"level" json:"level"`
}

// Stock filter values accepted by ProductFilter.Stock.
const (
	StockIn  = "in_stock"
	StockOut = "out_of_stock"
)

// Sort values accepted by ProductFilter.Sort.
const (
	SortPriceHigh = "price_high"
	SortPriceLow  = "price_low"
)

// ProductFilter is the catalog query. Zero values disable a criterion.
type ProductFilter struct {
	CategoryID  *primitive.ObjectID
	Colors      []string
	Sizes       []string
	MinPrice    float64
	MaxPrice    float64
	MinDiscount float64
	Stock       string
	Sort        string
	PageNumber  int
	PageSize    int
}

type ProductPage struct {
	Content     []Product `json:"content"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}
