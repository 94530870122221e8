package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
)

var productSorts = map[string]string{
	SortPriceLowToHigh: "price ASC",
	SortPriceHighToLow: "price DESC",
	SortTitleAToZ:      "title ASC",
	SortTitleZToA:      "title DESC",
}

type ProductFilter struct {
	Categories []string
	Brands     []string
	SortBy     string
	Offset     int
	Limit      int
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// UpdateProduct applies a partial update. Keys are column names.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uuid.UUID, patch map[string]any) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if len(patch) == 0 {
			return nil
		}
		if err := tx.Model(&p).Updates(patch).Error; err != nil {
			return err
		}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if len(f.Brands) > 0 {
		q = q.Where("brand IN ?", f.Brands)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := productSorts[f.SortBy]
	if !ok {
		order = productSorts[SortPriceLowToHigh]
	}

	var products []models.Product
	if err := q.Order(order).Order("id").Offset(f.Offset).Limit(f.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// SearchProducts is the database fallback for keyword search when no search
// cluster is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, keyword string, limit int) ([]models.Product, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ? OR LOWER(brand) LIKE ?", like, like, like, like).
		Order("title ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// DecrementStock takes qty units from the product only if enough are left.
// It returns false when no row matched, either because the product is gone
// or because the stock is short.
func (r *GormRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND total_stock >= ?", id, qty).
		Update("total_stock", gorm.Expr("total_stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("total_stock", gorm.Expr("total_stock + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) SetAverageReview(ctx context.Context, id uuid.UUID, avg float64) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("average_review", avg)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
