package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// products — товар с остатком на складе.
type Product struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name  string          `gorm:"type:varchar(255);not null"`
	Price decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	// Инвариант: Stock >= 0; списание атомарно при создании заказа.
	Stock int64 `gorm:"not null;default:0"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus конвертирует строку с границы в закрытое множество статусов.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusProcessing,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// orders — покупка товаров; кормит Ledger ORDER-проводкой при доставке.
type Order struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Status OrderStatus `gorm:"type:varchar(32);not null;index"`

	// Total включает DeliveryFee.
	Total       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`

	CustomerName  string `gorm:"type:varchar(255)"`
	CustomerPhone string `gorm:"type:varchar(32)"`

	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// order_items — строка заказа; списывает Product.Stock при создании.
type OrderItem struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`

	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Order   *Order   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
