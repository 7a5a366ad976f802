package model

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds served by the numbering sequencer.
const (
	DocumentKindInvoice = "invoice"
	DocumentKindQuote   = "quote"
)

// DocumentSequence holds the last allocated number per owner, document kind
// and year. Incremented atomically (single UPSERT) so concurrent creates by
// the same owner never receive the same number.
type DocumentSequence struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_owner_kind_year"`
	Kind    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_owner_kind_year"`
	Year    int       `gorm:"not null;uniqueIndex:idx_owner_kind_year"`
	Value   int64     `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
