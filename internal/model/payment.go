package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted against an invoice.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodOther        = "other"
)

// Payment records money received against an invoice. Creation and deletion
// both go through the payment service, which keeps the invoice's amount_paid
// and status in sync inside the same transaction.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate   time.Time       `gorm:"type:date;not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	Reference     *string         `gorm:"type:varchar(100)"`
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
