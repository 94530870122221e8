package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressService struct {
	Repo *repo.GormRepo
}

type AddressInput struct {
	UserID  string
	Address string
	City    string
	Pincode string
	Phone   string
	Notes   string
}

// AddressPatch holds editable fields. The owner and id are never patched.
type AddressPatch struct {
	Address *string
	City    *string
	Pincode *string
	Phone   *string
	Notes   *string
}

func (s *AddressService) Add(ctx context.Context, in AddressInput) (*models.Address, error) {
	for _, v := range []string{in.UserID, in.Address, in.City, in.Pincode, in.Phone, in.Notes} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: Invalid data provided!", ErrValidation)
		}
	}
	a := &models.Address{
		UserID:  in.UserID,
		Address: in.Address,
		City:    in.City,
		Pincode: in.Pincode,
		Phone:   in.Phone,
		Notes:   in.Notes,
	}
	if err := s.Repo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, userID string) ([]models.Address, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: User id is required!", ErrValidation)
	}
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *AddressService) Update(ctx context.Context, userID, addressID string, patch AddressPatch) (*models.Address, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(addressID) == "" {
		return nil, fmt.Errorf("%w: User and address id is required!", ErrValidation)
	}
	id, err := uuid.Parse(addressID)
	if err != nil {
		return nil, fmt.Errorf("%w: Address not found", ErrNotFound)
	}

	cols := map[string]any{}
	if patch.Address != nil {
		cols["address"] = *patch.Address
	}
	if patch.City != nil {
		cols["city"] = *patch.City
	}
	if patch.Pincode != nil {
		cols["pincode"] = *patch.Pincode
	}
	if patch.Phone != nil {
		cols["phone"] = *patch.Phone
	}
	if patch.Notes != nil {
		cols["notes"] = *patch.Notes
	}

	a, err := s.Repo.UpdateAddress(ctx, id, userID, cols)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Address not found", ErrNotFound)
	}
	return a, err
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(addressID) == "" {
		return fmt.Errorf("%w: User and address id is required!", ErrValidation)
	}
	id, err := uuid.Parse(addressID)
	if err != nil {
		return fmt.Errorf("%w: Address not found", ErrNotFound)
	}
	if err := s.Repo.DeleteAddress(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Address not found", ErrNotFound)
		}
		return err
	}
	return nil
}
