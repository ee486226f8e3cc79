package service

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReviews(t *testing.T) {
	products := newMockProductRepository()
	users := newMockUserRepository()
	sut := NewReviewService(&mockReviewRepository{}, products, users)
	author := users.add(domain.User{FirstName: "Ann", Email: "ann@example.com"})
	p := products.add(domain.Product{Title: "tee"})

	review, err := sut.CreateReview(context.Background(), &author, CreateReviewRequest{ProductID: p.ID.Hex(), Review: "nice"})
	require.NoError(t, err)
	assert.Equal(t, author.ID, review.UserID)

	reviews, err := sut.GetAllReviews(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "Ann", reviews[0].User.FirstName)

	_, err = sut.CreateReview(context.Background(), &author, CreateReviewRequest{ProductID: primitive.NewObjectID().Hex(), Review: "nice"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = sut.CreateReview(context.Background(), &author, CreateReviewRequest{ProductID: p.ID.Hex()})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRatings(t *testing.T) {
	products := newMockProductRepository()
	sut := NewRatingService(&mockRatingRepository{}, products)
	user := domain.User{ID: primitive.NewObjectID()}
	p := products.add(domain.Product{Title: "tee"})

	_, err := sut.CreateRating(context.Background(), &user, CreateRatingRequest{ProductID: p.ID.Hex(), Rating: ptr(4.5)})
	require.NoError(t, err)
	_, err = sut.CreateRating(context.Background(), &user, CreateRatingRequest{ProductID: p.ID.Hex(), Rating: ptr(0.0)})
	require.NoError(t, err)

	for _, bad := range []*float64{nil, ptr(-1.0), ptr(5.5)} {
		_, err = sut.CreateRating(context.Background(), &user, CreateRatingRequest{ProductID: p.ID.Hex(), Rating: bad})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}

	ratings, err := sut.GetAllRatings(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}
