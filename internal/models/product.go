package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Weight      string          `json:"weight" gorm:"not null"` // 2.7kg, 11kg, 22kg, 50kg
	NewPrice    decimal.Decimal `json:"newPrice" gorm:"type:decimal(10,2);not null"`
	SwapPrice   decimal.Decimal `json:"swapPrice" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	ImageURL    string          `json:"imageUrl"`
	IsActive    bool            `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PriceFor returns the unit price charged for an order type.
func (p *Product) PriceFor(t OrderType) decimal.Decimal {
	if t == OrderTypeSwap {
		return p.SwapPrice
	}
	return p.NewPrice
}
