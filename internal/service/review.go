package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/telemetry"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ReviewService struct {
	Repo    *repo.GormRepo
	Events  EventPublisher
	Metrics *metrics.Shop
}

type ReviewInput struct {
	ProductID     string
	UserID        string
	UserName      string
	ReviewMessage string
	ReviewValue   float64
}

func validateReview(in ReviewInput) (uuid.UUID, error) {
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.UserID) == "" ||
		strings.TrimSpace(in.UserName) == "" || strings.TrimSpace(in.ReviewMessage) == "" {
		return uuid.Nil, fmt.Errorf("%w: productId, userId, userName and reviewMessage are required", ErrValidation)
	}
	if math.IsNaN(in.ReviewValue) || math.IsInf(in.ReviewValue, 0) || in.ReviewValue <= 0 {
		return uuid.Nil, fmt.Errorf("%w: reviewValue must be a positive number", ErrValidation)
	}
	pid, err := uuid.Parse(in.ProductID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid productId", ErrValidation)
	}
	return pid, nil
}

// Add records a review from a buyer of the product and refreshes the
// product's average rating in the same transaction.
func (s *ReviewService) Add(ctx context.Context, in ReviewInput) (review *models.Review, err error) {
	ctx, span := telemetry.StartSpan(ctx, "review.add", attribute.String("product.id", in.ProductID))
	defer func() {
		telemetry.End(span, err)
		s.Metrics.Review(reviewOutcome(err))
	}()

	l := logging.FromContext(ctx).With("svc", "review.add", "product_id", in.ProductID, "user_id", in.UserID)

	pid, err := validateReview(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetProduct(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Product not found!", ErrNotFound)
		}
		return nil, err
	}

	bought, err := s.Repo.HasOrderedProduct(ctx, in.UserID, pid.String())
	if err != nil {
		return nil, err
	}
	if !bought {
		return nil, fmt.Errorf("%w: You need to purchase product to review it.", ErrForbidden)
	}

	var avg float64
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		_, err := tx.FindReview(ctx, pid, in.UserID)
		if err == nil {
			return fmt.Errorf("%w: You already reviewed this product!", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		r := &models.Review{
			ProductID:     pid,
			UserID:        in.UserID,
			UserName:      strings.TrimSpace(in.UserName),
			ReviewMessage: in.ReviewMessage,
			ReviewValue:   in.ReviewValue,
		}
		if err := tx.CreateReview(ctx, r); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: You already reviewed this product!", ErrConflict)
			}
			return err
		}

		if avg, err = tx.AverageReview(ctx, pid); err != nil {
			return err
		}
		if err := tx.SetAverageReview(ctx, pid, avg); err != nil {
			return err
		}
		review = r
		return nil
	})
	if err != nil {
		l.Warn("add_review_failed", "reason", Message(err), "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicReviews, pid.String(), "review_created", map[string]any{
		"productId":     pid.String(),
		"userId":        in.UserID,
		"reviewValue":   in.ReviewValue,
		"averageReview": avg,
	})
	l.Info("review_added", "average_review", avg)
	return review, nil
}

// List returns the reviews of a product. A malformed id simply has none.
func (s *ReviewService) List(ctx context.Context, productID string) ([]models.Review, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return []models.Review{}, nil
	}
	return s.Repo.ListReviews(ctx, pid)
}

func reviewOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "duplicate"
	}
	return "error"
}
