package dto

import "github.com/shopspring/decimal"

type ProductCreateRequest struct {
	Name              string          `json:"name"       validate:"required,min=2"`
	Description       *string         `json:"description"`
	SKU               *string         `json:"sku"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"min=0"`
	TaxRate           decimal.Decimal `json:"tax_rate"   validate:"min=0,max=100"`
	Unit              string          `json:"unit"`
	IsService         bool            `json:"is_service"`
	StockQuantity     int             `json:"stock_quantity"      validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
}

type ProductUpdateRequest struct {
	Name              *string          `json:"name"       validate:"omitempty,min=2"`
	Description       *string          `json:"description"`
	SKU               *string          `json:"sku"`
	UnitPrice         *decimal.Decimal `json:"unit_price" validate:"omitempty,min=0"`
	TaxRate           *decimal.Decimal `json:"tax_rate"   validate:"omitempty,min=0,max=100"`
	Unit              *string          `json:"unit"`
	StockQuantity     *int             `json:"stock_quantity"      validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ProductFilter: Active — "false" = inactive only, "all" = everything,
// anything else = active only (default).
type ProductFilter struct {
	Search  string `form:"search"`
	Active  string `form:"active"`
	Service string `form:"service"` // "true" | "false" | "" (all)
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	SKU               *string         `json:"sku"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	PriceWithTax      decimal.Decimal `json:"price_with_tax"`
	Unit              string          `json:"unit"`
	IsService         bool            `json:"is_service"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsLowStock        bool            `json:"is_low_stock"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
