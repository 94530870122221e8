package repo

import (
	"context"
	"database/sql"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) FindReview(ctx context.Context, productID uuid.UUID, userID string) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) AverageReview(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg sql.NullFloat64
	row := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(review_value)").
		Where("product_id = ?", productID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
