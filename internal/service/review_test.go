package service

import (
	"context"
	"math"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	*orderFixture
	reviews *ReviewService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	f := newOrderFixture(t)
	return &reviewFixture{
		orderFixture: f,
		reviews:      &ReviewService{Repo: f.repo, Events: f.events, Metrics: metrics.New(prometheus.NewRegistry())},
	}
}

func (f *reviewFixture) buy(t *testing.T, userID string, p *models.Product) {
	t.Helper()
	in := validInput(line(p, 1))
	in.UserID = userID
	_, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
}

func reviewOf(p *models.Product, userID string, value float64) ReviewInput {
	return ReviewInput{
		ProductID:     p.ID.String(),
		UserID:        userID,
		UserName:      "name-" + userID,
		ReviewMessage: "solid",
		ReviewValue:   value,
	}
}

func TestReviewService_Validation(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	p := f.product(t, "P", 1)

	tests := []struct {
		name   string
		mutate func(in *ReviewInput)
	}{
		{name: "missing product", mutate: func(in *ReviewInput) { in.ProductID = "" }},
		{name: "malformed product", mutate: func(in *ReviewInput) { in.ProductID = "abc" }},
		{name: "missing user", mutate: func(in *ReviewInput) { in.UserID = "" }},
		{name: "missing user name", mutate: func(in *ReviewInput) { in.UserName = "" }},
		{name: "missing message", mutate: func(in *ReviewInput) { in.ReviewMessage = " " }},
		{name: "zero rating", mutate: func(in *ReviewInput) { in.ReviewValue = 0 }},
		{name: "negative rating", mutate: func(in *ReviewInput) { in.ReviewValue = -1 }},
		{name: "nan rating", mutate: func(in *ReviewInput) { in.ReviewValue = math.NaN() }},
		{name: "infinite rating", mutate: func(in *ReviewInput) { in.ReviewValue = math.Inf(1) }},
	}

	for _, tt := range tests {
		in := reviewOf(p, "u1", 4)
		tt.mutate(&in)
		_, err := f.reviews.Add(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestReviewService_RequiresProductAndPurchase(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	p := f.product(t, "P", 1)

	_, err := f.reviews.Add(context.Background(), reviewOf(&models.Product{ID: uuid.New()}, "u1", 4))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.reviews.Add(context.Background(), reviewOf(p, "u1", 4))
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "You need to purchase product to review it.", Message(err))
}

func TestReviewService_AverageAndDuplicate(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	ctx := context.Background()
	p := f.product(t, "P", 10)

	f.buy(t, "u1", p)
	f.buy(t, "u2", p)

	_, err := f.reviews.Add(ctx, reviewOf(p, "u1", 5))
	require.NoError(t, err)

	r, err := f.reviews.Add(ctx, reviewOf(p, "u2", 4))
	require.NoError(t, err)
	assert.Equal(t, "name-u2", r.UserName)

	stored, err := f.repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, stored.AverageReview, 1e-9)

	_, err = f.reviews.Add(ctx, reviewOf(p, "u1", 1))
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "You already reviewed this product!", Message(err))

	stored, err = f.repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, stored.AverageReview, 1e-9, "rejected duplicate leaves the average alone")

	list, err := f.reviews.List(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.Equal(t, []string{"review_created", "review_created"}, f.events.Types(events.TopicReviews))
}

func TestReviewService_ListMalformedID(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	list, err := f.reviews.List(context.Background(), "not-an-id")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
