package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber   string          `json:"orderNumber" gorm:"uniqueIndex;not null"`
	CustomerID    string          `json:"customerId" gorm:"size:36;not null;index"`
	ProductID     string          `json:"productId" gorm:"size:36;not null;index"`
	AddressID     *string         `json:"addressId" gorm:"size:36"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Type          OrderType       `json:"type" gorm:"not null"`
	UnitPrice     decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Status        OrderStatus     `json:"status" gorm:"default:'pending';not null;index"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" gorm:"not null"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" gorm:"default:'pending';not null"`
	Notes         string          `json:"notes"`
	IsPOS         bool            `json:"isPos" gorm:"column:is_pos;default:false"`
	DeliveredAt   *time.Time      `json:"deliveredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Customer *User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Product  *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Address  *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	return nil
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderProcessing, OrderCancelled},
	OrderProcessing:     {OrderOutForDelivery},
	OrderOutForDelivery: {OrderDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type OrderType string

const (
	OrderTypeNew  OrderType = "new"
	OrderTypeSwap OrderType = "swap"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeNew || t == OrderTypeSwap
}

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentGCash PaymentMethod = "gcash"
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentGCash, PaymentCash, PaymentCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)
