package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of a business owner. Owner-scoped: no query path may
// return a client to anyone but its owner.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string  `gorm:"not null"`
	Email      *string
	Phone      *string `gorm:"type:varchar(50)"`
	Address    *string
	City       *string `gorm:"type:varchar(100)"`
	PostalCode *string `gorm:"type:varchar(20)"`
	Country    string  `gorm:"type:varchar(100);not null;default:'France'"`
	TaxID      *string `gorm:"type:varchar(100);column:tax_id"`
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
