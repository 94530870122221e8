package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func cartItemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func (r *GormRepo) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Items", cartItemsInOrder).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem merges qty into an existing line or creates a new one.
func (r *GormRepo) AddCartItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&models.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}).Error
	})
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, cartID, productID uuid.UUID, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveCartItems(ctx context.Context, cartID uuid.UUID, productIDs ...uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id IN ?", cartID, productIDs).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// DeleteCart removes the cart and its lines, but only when the cart belongs
// to userID. It reports whether a cart was removed.
func (r *GormRepo) DeleteCart(ctx context.Context, cartID uuid.UUID, userID string) (bool, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", cartID, userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return false, err
	}
	if err := r.DB.WithContext(ctx).Delete(&cart).Error; err != nil {
		return false, err
	}
	return true, nil
}
