package transport

import (
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/shopspring/decimal"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type RegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID.String(), UserName: u.UserName, Email: u.Email, Role: u.Role}
}

type OrderItemRequest struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID        string             `json:"userId"`
	CartID        string             `json:"cartId"`
	CartItems     []OrderItemRequest `json:"cartItems"`
	AddressInfo   models.AddressInfo `json:"addressInfo"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
}

func (r CreateOrderRequest) Input() service.CreateOrderInput {
	items := make([]service.OrderItemInput, 0, len(r.CartItems))
	for _, it := range r.CartItems {
		items = append(items, service.OrderItemInput{
			ProductID: it.ProductID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return service.CreateOrderInput{
		UserID:        r.UserID,
		CartID:        r.CartID,
		Items:         items,
		AddressInfo:   r.AddressInfo,
		PaymentMethod: r.PaymentMethod,
		TotalAmount:   r.TotalAmount,
	}
}

type CreateOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type CaptureRequest struct {
	PaymentID string `json:"paymentId"`
	PayerID   string `json:"payerId"`
	OrderID   string `json:"orderId"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

type CartItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ReviewRequest struct {
	ProductID     string  `json:"productId"`
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	ReviewMessage string  `json:"reviewMessage"`
	ReviewValue   float64 `json:"reviewValue"`
}

func (r ReviewRequest) Input() service.ReviewInput {
	return service.ReviewInput{
		ProductID:     r.ProductID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		ReviewMessage: r.ReviewMessage,
		ReviewValue:   r.ReviewValue,
	}
}

type AddressRequest struct {
	UserID  string `json:"userId"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (r AddressRequest) Input() service.AddressInput {
	return service.AddressInput{
		UserID:  r.UserID,
		Address: r.Address,
		City:    r.City,
		Pincode: r.Pincode,
		Phone:   r.Phone,
		Notes:   r.Notes,
	}
}

// AddressPatchRequest has no id or userId field, so a body carrying them
// cannot move the address to another owner.
type AddressPatchRequest struct {
	Address *string `json:"address"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`
	Phone   *string `json:"phone"`
	Notes   *string `json:"notes"`
}

func (r AddressPatchRequest) Patch() service.AddressPatch {
	return service.AddressPatch{
		Address: r.Address,
		City:    r.City,
		Pincode: r.Pincode,
		Phone:   r.Phone,
		Notes:   r.Notes,
	}
}

type ProductRequest struct {
	Image       string          `json:"image"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	TotalStock  int             `json:"totalStock"`
}

func (r ProductRequest) Input() service.ProductInput {
	return service.ProductInput{
		Image:       r.Image,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		TotalStock:  r.TotalStock,
	}
}

type ProductPatchRequest struct {
	Image       *string          `json:"image"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	TotalStock  *int             `json:"totalStock"`
}

func (r ProductPatchRequest) Patch() service.ProductPatch {
	return service.ProductPatch{
		Image:       r.Image,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		TotalStock:  r.TotalStock,
	}
}

type FeatureRequest struct {
	Image string `json:"image"`
}
