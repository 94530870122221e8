package repo

import (
	"context"

	"github.com/Skotchmaster/shopfront/internal/models"
)

func (r *GormRepo) CreateFeature(ctx context.Context, f *models.Feature) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	features := []models.Feature{}
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&features).Error
	return features, err
}
