package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService struct {
	Repo *repo.GormRepo
}

type CartLine struct {
	ProductID string          `json:"productId"`
	Image     string          `json:"image"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Quantity  int             `json:"quantity"`
}

// CartView is a cart with every line joined to its current product.
type CartView struct {
	ID     uuid.UUID  `json:"id"`
	UserID string     `json:"userId"`
	Items  []CartLine `json:"items"`
}

func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(productID) == "" || qty <= 0 {
		return nil, fmt.Errorf("%w: Invalid data provided!", ErrValidation)
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
	}
	if _, err := s.Repo.GetProduct(ctx, pid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Product not found", ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddCartItem(ctx, cart.ID, pid, qty); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: User id is mandatory!", ErrValidation)
	}
	return s.load(ctx, userID)
}

func (s *CartService) Update(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(productID) == "" || qty <= 0 {
		return nil, fmt.Errorf("%w: Invalid data provided!", ErrValidation)
	}
	cart, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: Cart item not present!", ErrNotFound)
	}
	ok, err := s.Repo.SetCartItemQuantity(ctx, cart.ID, pid, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: Cart item not present!", ErrNotFound)
	}
	return s.load(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*CartView, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: Invalid data provided!", ErrValidation)
	}
	cart, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pid, err := uuid.Parse(productID); err == nil {
		if err := s.Repo.RemoveCartItems(ctx, cart.ID, pid); err != nil {
			return nil, err
		}
	}
	return s.load(ctx, userID)
}

// Clear empties the cart but keeps the cart row. It returns the message shown
// to the client.
func (s *CartService) Clear(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: User id is mandatory!", ErrValidation)
	}
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Cart already empty", nil
	}
	if err != nil {
		return "", err
	}
	if err := s.Repo.ClearCart(ctx, cart.ID); err != nil {
		return "", err
	}
	return "Cart cleared successfully", nil
}

func (s *CartService) cart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Cart not found!", ErrNotFound)
	}
	return cart, err
}

// load returns the populated cart. Lines whose product no longer exists are
// dropped and the pruned cart is saved.
func (s *CartService) load(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &CartView{ID: cart.ID, UserID: cart.UserID, Items: make([]CartLine, 0, len(cart.Items))}
	var gone []uuid.UUID
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			gone = append(gone, it.ProductID)
			continue
		}
		view.Items = append(view.Items, CartLine{
			ProductID: it.ProductID.String(),
			Image:     p.Image,
			Title:     p.Title,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Quantity:  it.Quantity,
		})
	}

	if len(gone) > 0 {
		if err := s.Repo.RemoveCartItems(ctx, cart.ID, gone...); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info("cart_pruned", "user_id", userID, "removed", len(gone))
	}
	return view, nil
}
