package dto

import "github.com/shopspring/decimal"

// OverviewResponse is the headline dashboard block.
type OverviewResponse struct {
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	PendingAmount       decimal.Decimal `json:"pending_amount"`
	InvoiceCount        int64           `json:"invoice_count"`
	QuoteCount          int64           `json:"quote_count"`
	ClientCount         int64           `json:"client_count"`
	ProductCount        int64           `json:"product_count"`
	OverdueInvoiceCount int64           `json:"overdue_invoice_count"`
}

type MonthlyRevenue struct {
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type RevenueByMonthResponse struct {
	Year   int              `json:"year"`
	Months []MonthlyRevenue `json:"months"`
}

type TopClient struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Invoices   int64           `json:"invoices"`
}

type TopClientsResponse struct {
	Clients []TopClient `json:"clients"`
}

// RecentDocument is a flattened invoice-or-quote row for the activity feed.
type RecentDocument struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"` // invoice | quote
	Number    string          `json:"number"`
	Client    string          `json:"client"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	IssueDate string          `json:"issue_date"`
}

type RecentDocumentsResponse struct {
	Documents []RecentDocument `json:"documents"`
}
