package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	User      *User              `bson:"-" json:"user,omitempty"`
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Review    string             `bson:"review" json:"review"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Rating    float64            `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
