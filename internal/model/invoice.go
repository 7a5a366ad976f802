package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. DRAFT is the only state allowing structural mutation;
// PAID / PARTIALLY_PAID are reachable only through payment application.
const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusSent          = "sent"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusOverdue       = "overdue"
	InvoiceStatusCancelled     = "cancelled"
)

// Invoice aggregates line items and payments. Stored totals are always the
// rounded sums of the current items — recomputed on every line mutation,
// never edited by hand.
type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Status        string `gorm:"type:varchar(20);not null;default:'draft'"`

	IssueDate time.Time `gorm:"type:date;not null"`
	DueDate   time.Time `gorm:"type:date;not null"`

	Notes *string
	Terms *string

	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	PDFPath *string    `gorm:"type:varchar(500);column:pdf_path"`
	SentAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Client   *Client       `gorm:"foreignKey:ClientID"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// BalanceDue is the remaining amount owed on the invoice.
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// IsFullyPaid reports whether payments cover the total.
func (i *Invoice) IsFullyPaid() bool {
	return i.AmountPaid.GreaterThanOrEqual(i.Total)
}

// IsOverdue is a read-time predicate; nothing transitions invoices to the
// overdue status automatically.
func (i *Invoice) IsOverdue(today time.Time) bool {
	switch i.Status {
	case InvoiceStatusSent, InvoiceStatusPartiallyPaid:
		return today.After(i.DueDate)
	}
	return false
}

// CalculateTotals recomputes the stored aggregates from the current items.
// Line values are summed at full decimal precision; rounding (half up, 2
// places) happens only here, on the stored result. Idempotent.
func (i *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for idx := range i.Items {
		subtotal = subtotal.Add(i.Items[idx].Subtotal())
		taxTotal = taxTotal.Add(i.Items[idx].TaxAmount())
	}
	i.Subtotal = subtotal.Round(2)
	i.TaxTotal = taxTotal.Round(2)
	i.Total = subtotal.Add(taxTotal).Round(2)
}

// InvoiceItem is one priced line of an invoice. Monetary derivations are
// computed, never stored. ProductID is a point-in-time provenance reference:
// price/rate/unit were copied from the product at line creation.
type InvoiceItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
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

// Subtotal = quantity * unit_price * (1 - discount/100), full precision.
func (it *InvoiceItem) Subtotal() decimal.Decimal {
	gross := it.Quantity.Mul(it.UnitPrice)
	discount := gross.Mul(it.DiscountPercent).Div(decimal.NewFromInt(100))
	return gross.Sub(discount)
}

// TaxAmount = subtotal * tax_rate / 100, full precision.
func (it *InvoiceItem) TaxAmount() decimal.Decimal {
	return it.Subtotal().Mul(it.TaxRate).Div(decimal.NewFromInt(100))
}

// Total = subtotal + tax, full precision.
func (it *InvoiceItem) Total() decimal.Decimal {
	return it.Subtotal().Add(it.TaxAmount())
}
