package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote statuses. CONVERTED is terminal and reachable only through
// conversion of an accepted quote; EXPIRED exists as a status value but is
// never assigned automatically (expiry is the IsExpired predicate).
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusExpired   = "expired"
	QuoteStatusConverted = "converted"
)

// Quote is an estimate that may be converted into an invoice once accepted.
// Same aggregate-totals discipline as Invoice.
type Quote struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	QuoteNumber string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Status      string `gorm:"type:varchar(20);not null;default:'draft'"`

	IssueDate    time.Time `gorm:"type:date;not null"`
	ValidityDate time.Time `gorm:"type:date;not null"`

	Notes *string
	Terms *string

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// ConvertedInvoiceID is set exactly once, inside the conversion
	// transaction. A non-nil value blocks any further conversion.
	ConvertedInvoiceID *uuid.UUID `gorm:"type:uuid"`

	PDFPath *string    `gorm:"type:varchar(500);column:pdf_path"`
	SentAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Client *Client     `gorm:"foreignKey:ClientID"`
	Items  []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// IsExpired reports whether a sent quote passed its validity date. Read-time
// only — no job flips quotes to the expired status.
func (q *Quote) IsExpired(today time.Time) bool {
	return q.Status == QuoteStatusSent && today.After(q.ValidityDate)
}

// CanConvert reports whether the quote is eligible for conversion.
func (q *Quote) CanConvert() bool {
	return q.Status == QuoteStatusAccepted && q.ConvertedInvoiceID == nil
}

// CalculateTotals recomputes stored aggregates from the current items, same
// rounding policy as Invoice.CalculateTotals.
func (q *Quote) CalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for idx := range q.Items {
		subtotal = subtotal.Add(q.Items[idx].Subtotal())
		taxTotal = taxTotal.Add(q.Items[idx].TaxAmount())
	}
	q.Subtotal = subtotal.Round(2)
	q.TaxTotal = taxTotal.Round(2)
	q.Total = subtotal.Add(taxTotal).Round(2)
}

// QuoteItem is one priced line of a quote, same shape and arithmetic as
// InvoiceItem.
type QuoteItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuoteID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID *uuid.UUID `gorm:"type:uuid"`

	Description     string          `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1"`
	Unit            string          `gorm:"type:varchar(50);not null;default:'unité'"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20.00"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (it *QuoteItem) Subtotal() decimal.Decimal {
	gross := it.Quantity.Mul(it.UnitPrice)
	discount := gross.Mul(it.DiscountPercent).Div(decimal.NewFromInt(100))
	return gross.Sub(discount)
}

func (it *QuoteItem) TaxAmount() decimal.Decimal {
	return it.Subtotal().Mul(it.TaxRate).Div(decimal.NewFromInt(100))
}

func (it *QuoteItem) Total() decimal.Decimal {
	return it.Subtotal().Add(it.TaxAmount())
}
