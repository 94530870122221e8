package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices go over the wire as JSON numbers, the way the storefront reads them.
	decimal.MarshalJSONWithoutQuotes = true
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	UserName     string    `gorm:"uniqueIndex;not null"  json:"userName"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"         json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Role      string    `gorm:"not null"           json:"role"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64     `gorm:"not null"           json:"expiresAt"`
	Revoked   bool      `gorm:"default:false"      json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"                     json:"id"`
	Image         string          `json:"image"`
	Title         string          `gorm:"not null"                                 json:"title"`
	Description   string          `json:"description"`
	Category      string          `gorm:"index"                                    json:"category"`
	Brand         string          `gorm:"index"                                    json:"brand"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"    json:"price"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"    json:"salePrice"`
	TotalStock    int             `gorm:"not null;default:0;check:total_stock >= 0" json:"totalStock"`
	AverageReview float64         `gorm:"not null;default:0"                       json:"averageReview"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"  json:"id"`
	UserID    string     `gorm:"uniqueIndex;not null"  json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID"     json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"-"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null" json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity>0"                     json:"quantity"`
	CreatedAt time.Time `json:"-"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (CartItem) TableName() string {
	return "cart_items"
}

type AddressInfo struct {
	AddressID string `json:"addressId"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"                  json:"id"`
	UserID        string          `gorm:"index;not null"                        json:"userId"`
	CartID        string          `json:"cartId"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"                    json:"cartItems"`
	AddressInfo   AddressInfo     `gorm:"embedded;embeddedPrefix:address_"      json:"addressInfo"`
	OrderStatus   OrderStatus     `gorm:"type:varchar(20);not null;index"       json:"orderStatus"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null"             json:"paymentStatus"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentID     string          `json:"paymentId"`
	PayerID       string          `json:"payerId"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"           json:"totalAmount"`
	CreatedAt     time.Time       `json:"orderDate"`
	UpdatedAt     time.Time       `json:"orderUpdateDate"`
}

func (o *Order) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }

// OrderItem is a snapshot taken at checkout. It is never refreshed from the
// catalog, so ProductID stays an opaque string even if the product is gone.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"      json:"-"`
	Position  int             `gorm:"not null"                      json:"-"`
	ProductID string          `gorm:"index;not null"                json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	Quantity  int             `gorm:"not null;check:quantity>0"     json:"quantity"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }

type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"                                json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_product_user;not null" json:"productId"`
	UserID        string    `gorm:"uniqueIndex:idx_review_product_user;index;not null"  json:"userId"`
	UserName      string    `gorm:"not null"                                            json:"userName"`
	ReviewMessage string    `gorm:"not null"                                            json:"reviewMessage"`
	ReviewValue   float64   `gorm:"not null"                                            json:"reviewValue"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r *Review) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null"       json:"userId"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Pincode   string    `json:"pincode"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }

type Feature struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Image     string    `gorm:"not null"             json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *Feature) BeforeCreate(*gorm.DB) error { ensureID(&f.ID); return nil }

// All lists every persisted model, in dependency order, for AutoMigrate in tests.
func All() []any {
	return []any{
		&User{}, &RefreshToken{},
		&Product{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
		&Review{},
		&Address{},
		&Feature{},
	}
}
