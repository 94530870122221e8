package repo

import (
	"context"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	addresses := []models.Address{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&addresses).Error
	return addresses, err
}

// UpdateAddress patches the address only if it belongs to userID.
func (r *GormRepo) UpdateAddress(ctx context.Context, id uuid.UUID, userID string, patch map[string]any) (*models.Address, error) {
	var a models.Address
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
			return err
		}
		if len(patch) == 0 {
			return nil
		}
		if err := tx.Model(&a).Updates(patch).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uuid.UUID, userID string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
