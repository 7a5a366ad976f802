package dto

import "github.com/shopspring/decimal"

type QuoteCreateRequest struct {
	ClientID     string            `json:"client_id"     validate:"required,uuid"`
	IssueDate    string            `json:"issue_date"    validate:"required,datetime=2006-01-02"`
	ValidityDate string            `json:"validity_date" validate:"required,datetime=2006-01-02"`
	Notes        *string           `json:"notes"`
	Terms        *string           `json:"terms"`
	Items        []LineItemRequest `json:"items"         validate:"dive"`
}

type QuoteUpdateRequest struct {
	ClientID     *string `json:"client_id"     validate:"omitempty,uuid"`
	IssueDate    *string `json:"issue_date"    validate:"omitempty,datetime=2006-01-02"`
	ValidityDate *string `json:"validity_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes"`
	Terms        *string `json:"terms"`
}

type QuoteFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type QuoteResponse struct {
	ID                 string             `json:"id"`
	QuoteNumber        string             `json:"quote_number"`
	ClientID           string             `json:"client_id"`
	ClientName         string             `json:"client_name,omitempty"`
	Status             string             `json:"status"`
	IssueDate          string             `json:"issue_date"`
	ValidityDate       string             `json:"validity_date"`
	Notes              *string            `json:"notes"`
	Terms              *string            `json:"terms"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TaxTotal           decimal.Decimal    `json:"tax_total"`
	Total              decimal.Decimal    `json:"total"`
	IsExpired          bool               `json:"is_expired"`
	ConvertedInvoiceID *string            `json:"converted_invoice_id,omitempty"`
	PDFPath            *string            `json:"pdf_path,omitempty"`
	SentAt             *string            `json:"sent_at,omitempty"`
	Items              []LineItemResponse `json:"items"`
	CreatedAt          string             `json:"created_at"`
}

type QuoteListResponse struct {
	Data  []QuoteResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
