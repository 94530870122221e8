package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/util"
	"github.com/Skotchmaster/shopfront/pkg/config"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const searchLimit = 50

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndexer
	Events EventPublisher
}

type ProductInput struct {
	Image       string
	Title       string
	Description string
	Category    string
	Brand       string
	Price       decimal.Decimal
	SalePrice   decimal.Decimal
	TotalStock  int
}

// ProductPatch carries only the fields an admin edit actually sent.
type ProductPatch struct {
	Image       *string
	Title       *string
	Description *string
	Category    *string
	Brand       *string
	Price       *decimal.Decimal
	SalePrice   *decimal.Decimal
	TotalStock  *int
}

type ListQuery struct {
	Category string
	Brand    string
	SortBy   string
	Page     int
	Limit    int
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination util.Pagination  `json:"pagination"`
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Price.IsNegative() || in.SalePrice.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if !validMoney(in.Price) || !validMoney(in.SalePrice) {
		return nil, fmt.Errorf("%w: price must have at most 2 decimals", ErrValidation)
	}
	if in.TotalStock < 0 {
		return nil, fmt.Errorf("%w: totalStock must not be negative", ErrValidation)
	}

	p := &models.Product{
		Image:       in.Image,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		TotalStock:  in.TotalStock,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}

	s.reindex(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), "product_created", map[string]any{"productId": p.ID.String(), "title": p.Title})
	return p, nil
}

func (s *CatalogService) Edit(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
	}

	cols := map[string]any{}
	if patch.Image != nil {
		cols["image"] = *patch.Image
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be blank", ErrValidation)
		}
		cols["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Category != nil {
		cols["category"] = *patch.Category
	}
	if patch.Brand != nil {
		cols["brand"] = *patch.Brand
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() || !validMoney(*patch.Price) {
			return nil, fmt.Errorf("%w: price must be a non-negative amount with at most 2 decimals", ErrValidation)
		}
		cols["price"] = *patch.Price
	}
	if patch.SalePrice != nil {
		if patch.SalePrice.IsNegative() || !validMoney(*patch.SalePrice) {
			return nil, fmt.Errorf("%w: salePrice must be a non-negative amount with at most 2 decimals", ErrValidation)
		}
		cols["sale_price"] = *patch.SalePrice
	}
	if patch.TotalStock != nil {
		if *patch.TotalStock < 0 {
			return nil, fmt.Errorf("%w: totalStock must not be negative", ErrValidation)
		}
		cols["total_stock"] = *patch.TotalStock
	}

	p, err := s.Repo.UpdateProduct(ctx, pid, cols)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, p)
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), "product_updated", map[string]any{"productId": p.ID.String()})
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	pid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: Product not found", ErrNotFound)
	}
	if err := s.Repo.DeleteProduct(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Product not found", ErrNotFound)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, pid.String()); err != nil {
			l.Warn("unindex_product_failed", "product_id", pid, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, pid.String(), "product_deleted", map[string]any{"productId": pid.String()})
	return nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListAllProducts(ctx)
}

func (s *CatalogService) List(ctx context.Context, q ListQuery) (*ProductPage, error) {
	page, from, limit := util.Calculate(q.Page, q.Limit)
	products, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		Categories: config.CSV(q.Category),
		Brands:     config.CSV(q.Brand),
		SortBy:     q.SortBy,
		Offset:     from,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return &ProductPage{Products: products, Pagination: util.NewPagination(total, page, limit)}, nil
}

func (s *CatalogService) Details(ctx context.Context, id string) (*models.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: Product not found!", ErrNotFound)
	}
	p, err := s.Repo.GetProduct(ctx, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Product not found!", ErrNotFound)
	}
	return p, err
}

// Search prefers the search cluster and falls back to a database scan when
// the cluster is absent or failing.
func (s *CatalogService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: Keyword is required and must be in string format", ErrValidation)
	}

	if s.Index != nil {
		products, err := s.Index.Search(ctx, keyword, 0, searchLimit)
		if err == nil {
			return products, nil
		}
		l.Warn("es_search_failed", "error", err)
	}

	products, err := s.Repo.SearchProducts(ctx, keyword, searchLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
	}
}
