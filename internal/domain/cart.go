package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart is the persisted cart document. Its items are not stored on it; they
// are looked up by their cart reference.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CartID              primitive.ObjectID `bson:"cart" json:"cart"`
	UserID              primitive.ObjectID `bson:"user_id" json:"userId"`
	ProductID           primitive.ObjectID `bson:"product" json:"productId"`
	Product             *Product           `bson:"-" json:"product,omitempty"`
	Size                string             `bson:"size" json:"size"`
	Quantity            int                `bson:"quantity" json:"quantity"`
	UnitPrice           float64            `bson:"unit_price" json:"unitPrice"`
	UnitDiscountedPrice float64            `bson:"unit_discounted_price" json:"unitDiscountedPrice"`
	Price               float64            `bson:"-" json:"price"`
	DiscountedPrice     float64            `bson:"-" json:"discountedPrice"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CartItemKey identifies the single line a (cart, product, user, size) maps to.
// Size is matched as a literal, case included.
type CartItemKey struct {
	CartID    primitive.ObjectID
	ProductID primitive.ObjectID
	UserID    primitive.ObjectID
	Size      string
}

// WithLineTotals fills Price and DiscountedPrice from the unit prices.
func (i CartItem) WithLineTotals() CartItem {
	qty := decimal.NewFromInt(int64(i.Quantity))
	i.Price = decimal.NewFromFloat(i.UnitPrice).Mul(qty).InexactFloat64()
	i.DiscountedPrice = decimal.NewFromFloat(i.UnitDiscountedPrice).Mul(qty).InexactFloat64()
	return i
}

type Totals struct {
	TotalPrice           float64 `json:"totalPrice"`
	TotalDiscountedPrice float64 `json:"totalDiscountedPrice"`
	TotalItem            int     `json:"totalItem"`
}

// ComputeTotals sums unit price times quantity over items.
func ComputeTotals(items []CartItem) Totals {
	price := decimal.Zero
	discounted := decimal.Zero
	count := 0
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		price = price.Add(decimal.NewFromFloat(item.UnitPrice).Mul(qty))
		discounted = discounted.Add(decimal.NewFromFloat(item.UnitDiscountedPrice).Mul(qty))
		count += item.Quantity
	}
	return Totals{
		TotalPrice:           price.InexactFloat64(),
		TotalDiscountedPrice: discounted.InexactFloat64(),
		TotalItem:            count,
	}
}

// CartView is a cart with its items and the totals computed from them.
type CartView struct {
	Cart
	CartItems []CartItem `json:"cartItems"`
	Totals
}

func NewCartView(cart Cart, items []CartItem) *CartView {
	withTotals := make([]CartItem, len(items))
	for i, item := range items {
		withTotals[i] = item.WithLineTotals()
	}
	return &CartView{
		Cart:      cart,
		CartItems: withTotals,
		Totals:    ComputeTotals(items),
	}
}
