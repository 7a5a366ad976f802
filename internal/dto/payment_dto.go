package dto

import "github.com/shopspring/decimal"

type PaymentCreateRequest struct {
	InvoiceID     string          `json:"invoice_id"     validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentDate   string          `json:"payment_date"   validate:"required,datetime=2006-01-02"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card bank_transfer check mobile_money other"`
	Reference     *string         `json:"reference"`
	Notes         *string         `json:"notes"`
}

type PaymentFilter struct {
	Method   string `form:"method" validate:"omitempty,oneof=cash card bank_transfer check mobile_money other"`
	FromDate string `form:"from_date" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date"   validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     *string         `json:"reference"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
}

type PaymentListResponse struct {
	Data  []PaymentResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
