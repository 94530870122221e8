package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
)

type FeatureService struct {
	Repo *repo.GormRepo
}

func (s *FeatureService) Add(ctx context.Context, image string) (*models.Feature, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	f := &models.Feature{Image: image}
	if err := s.Repo.CreateFeature(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeatureService) List(ctx context.Context) ([]models.Feature, error) {
	return s.Repo.ListFeatures(ctx)
}
