package model_test

import (
	"testing"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInvoiceItem_Arithmetic(t *testing.T) {
	it := model.InvoiceItem{
		Quantity:  d("2"),
		UnitPrice: d("100"),
		TaxRate:   d("20"),
	}
	assert.Equal(t, "200", it.Subtotal().String())
	assert.Equal(t, "40", it.TaxAmount().String())
	assert.Equal(t, "240", it.Total().String())
}

func TestInvoiceItem_Discount(t *testing.T) {
	it := model.InvoiceItem{
		Quantity:        d("1"),
		UnitPrice:       d("100"),
		TaxRate:         d("20"),
		DiscountPercent: d("10"),
	}
	// Discount applies before tax.
	assert.Equal(t, "90", it.Subtotal().String())
	assert.Equal(t, "18", it.TaxAmount().String())
	assert.Equal(t, "108", it.Total().String())
}

func TestInvoiceItem_FractionalQuantity(t *testing.T) {
	// 1.5 × 33.33 = 49.995 — line values keep full precision; rounding only
	// happens on the stored aggregates.
	it := model.InvoiceItem{
		Quantity:  d("1.5"),
		UnitPrice: d("33.33"),
		TaxRate:   d("20"),
	}
	assert.Equal(t, "49.995", it.Subtotal().String())

	inv := model.Invoice{Items: []model.InvoiceItem{it}}
	inv.CalculateTotals()
	assert.Equal(t, "50", inv.Subtotal.String())
	assert.Equal(t, "10", inv.TaxTotal.String())
	assert.Equal(t, "59.99", inv.Total.String())
}

func TestInvoice_CalculateTotalsIdempotent(t *testing.T) {
	inv := model.Invoice{
		Items: []model.InvoiceItem{
			{Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("20")},
			{Quantity: d("1"), UnitPrice: d("50"), TaxRate: d("10")},
		},
	}
	inv.CalculateTotals()
	first := inv.Total
	inv.CalculateTotals()
	assert.True(t, first.Equal(inv.Total))
	assert.Equal(t, "250", inv.Subtotal.String())
	assert.Equal(t, "45", inv.TaxTotal.String())
	assert.Equal(t, "295", inv.Total.String())
}

func TestInvoice_CalculateTotalsEmpty(t *testing.T) {
	inv := model.Invoice{Items: nil}
	inv.CalculateTotals()
	assert.True(t, inv.Subtotal.IsZero())
	assert.True(t, inv.TaxTotal.IsZero())
	assert.True(t, inv.Total.IsZero())
}

func TestInvoice_BalanceAndFullyPaid(t *testing.T) {
	inv := model.Invoice{Total: d("240"), AmountPaid: d("100")}
	assert.Equal(t, "140", inv.BalanceDue().String())
	assert.False(t, inv.IsFullyPaid())

	inv.AmountPaid = d("240")
	assert.True(t, inv.IsFullyPaid())
	assert.True(t, inv.BalanceDue().IsZero())
}

func TestInvoice_IsOverdue(t *testing.T) {
	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	after := due.AddDate(0, 0, 1)

	inv := model.Invoice{Status: model.InvoiceStatusSent, DueDate: due}
	assert.False(t, inv.IsOverdue(due), "due date itself is not overdue")
	assert.True(t, inv.IsOverdue(after))

	inv.Status = model.InvoiceStatusPartiallyPaid
	assert.True(t, inv.IsOverdue(after))

	// Draft, paid and cancelled invoices are never overdue.
	for _, status := range []string{
		model.InvoiceStatusDraft,
		model.InvoiceStatusPaid,
		model.InvoiceStatusCancelled,
	} {
		inv.Status = status
		assert.False(t, inv.IsOverdue(after), status)
	}
}
