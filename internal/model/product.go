package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product or service. Services carry no stock.
// Deactivation is a soft flag (IsActive) so historical invoice lines keep a
// valid product reference.
type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string  `gorm:"not null"`
	Description *string
	SKU         *string `gorm:"type:varchar(100);index;column:sku"`

	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20.00"`
	Unit      string          `gorm:"type:varchar(50);not null;default:'unité'"`

	IsService         bool `gorm:"not null;default:false"`
	StockQuantity     int  `gorm:"not null;default:0"`
	LowStockThreshold int  `gorm:"not null;default:5"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLowStock reports whether a physical product fell below its alert level.
func (p *Product) IsLowStock() bool {
	if p.IsService {
		return false
	}
	return p.StockQuantity <= p.LowStockThreshold
}

// PriceWithTax returns the unit price including tax.
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(100).Add(p.TaxRate)).Div(decimal.NewFromInt(100))
}
