package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a business-owner account. Every client, product, quote and invoice
// in the system belongs to exactly one user.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`

	BusinessName    *string
	BusinessAddress *string
	BusinessPhone   *string `gorm:"type:varchar(50)"`
	BusinessEmail   *string
	TaxID           *string `gorm:"type:varchar(100);column:tax_id"`
	LogoURL         *string `gorm:"type:varchar(500);column:logo_url"`

	IsActive   bool `gorm:"not null;default:true"`
	IsVerified bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
