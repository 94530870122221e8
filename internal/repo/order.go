package repo

import (
	"context"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	for i := range order.Items {
		order.Items[i].Position = i
	}
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", orderedItems).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row until the surrounding transaction ends.
// Concurrent captures of the same order serialize here.
func (r *GormRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("position ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// SaveCapture persists the payment outcome of a capture. Line items are
// snapshots and are never rewritten.
func (r *GormRepo) SaveCapture(ctx context.Context, order *models.Order) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"order_status":   order.OrderStatus,
			"payment_status": order.PaymentStatus,
			"payment_id":     order.PaymentID,
			"payer_id":       order.PayerID,
			"cart_id":        order.CartID,
			"updated_at":     order.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"order_status": order.OrderStatus,
			"updated_at":   order.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOrderedProduct reports whether any order of the user, whatever its status,
// carries a line for the product.
func (r *GormRepo) HasOrderedProduct(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
