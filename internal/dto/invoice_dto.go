package dto

import "github.com/shopspring/decimal"

// LineItemRequest is the shared request shape for invoice and quote lines.
// When ProductID is set, empty unit_price/tax_rate/unit/description default
// from the product at creation time (point-in-time copy).
type LineItemRequest struct {
	ProductID       *string          `json:"product_id"       validate:"omitempty,uuid"`
	Description     string           `json:"description"`
	Quantity        decimal.Decimal  `json:"quantity"         validate:"required"`
	Unit            string           `json:"unit"`
	UnitPrice       *decimal.Decimal `json:"unit_price"       validate:"omitempty,min=0"`
	TaxRate         *decimal.Decimal `json:"tax_rate"         validate:"omitempty,min=0,max=100"`
	DiscountPercent decimal.Decimal  `json:"discount_percent" validate:"min=0,max=100"`
}

type InvoiceCreateRequest struct {
	ClientID  string            `json:"client_id"  validate:"required,uuid"`
	IssueDate string            `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate   string            `json:"due_date"   validate:"required,datetime=2006-01-02"`
	Notes     *string           `json:"notes"`
	Terms     *string           `json:"terms"`
	Items     []LineItemRequest `json:"items"      validate:"dive"`
}

// InvoiceUpdateRequest mutates draft-only fields; nil fields stay untouched.
type InvoiceUpdateRequest struct {
	ClientID  *string `json:"client_id"  validate:"omitempty,uuid"`
	IssueDate *string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate   *string `json:"due_date"   validate:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes"`
	Terms     *string `json:"terms"`
}

type SendRequest struct {
	Message *string `json:"message"`
}

type InvoiceFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	FromDate string `form:"from_date" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date"   validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// LineItemResponse carries the stored fields plus the derived monetary
// values, rounded to 2 places for display.
type LineItemResponse struct {
	ID              string          `json:"id"`
	ProductID       *string         `json:"product_id"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

type InvoiceResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	ClientID      string             `json:"client_id"`
	ClientName    string             `json:"client_name,omitempty"`
	Status        string             `json:"status"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Notes         *string            `json:"notes"`
	Terms         *string            `json:"terms"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	BalanceDue    decimal.Decimal    `json:"balance_due"`
	IsOverdue     bool               `json:"is_overdue"`
	PDFPath       *string            `json:"pdf_path,omitempty"`
	SentAt        *string            `json:"sent_at,omitempty"`
	Items         []LineItemResponse `json:"items"`
	CreatedAt     string             `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
