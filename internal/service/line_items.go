package service

import (
	"context"
	"fmt"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var defaultTaxRate = decimal.NewFromInt(20)

// resolvedLine is a fully priced line ready to be persisted on an invoice or
// quote. Product values are copied at resolution time so later catalog edits
// never rewrite issued documents.
type resolvedLine struct {
	productID       *uuid.UUID
	description     string
	quantity        decimal.Decimal
	unit            string
	unitPrice       decimal.Decimal
	taxRate         decimal.Decimal
	discountPercent decimal.Decimal
}

// resolveLines validates raw line requests and fills the blanks from the
// referenced products. Runs outside the creation transaction (pre-flight).
func resolveLines(ctx context.Context, productRepo repository.ProductRepository, ownerID uuid.UUID, items []dto.LineItemRequest) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(items))
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, validation(fmt.Sprintf("ligne %d : la quantité doit être positive", i+1))
		}
		if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, validation(fmt.Sprintf("ligne %d : la remise doit être entre 0 et 100", i+1))
		}

		line := resolvedLine{
			description:     item.Description,
			quantity:        item.Quantity,
			unit:            item.Unit,
			discountPercent: item.DiscountPercent,
			taxRate:         defaultTaxRate,
		}

		if item.ProductID != nil && *item.ProductID != "" {
			pid, err := uuid.Parse(*item.ProductID)
			if err != nil {
				return nil, validation(fmt.Sprintf("ligne %d : product_id invalide", i+1))
			}
			product, err := productRepo.FindByID(ctx, pid, ownerID)
			if err != nil {
				return nil, notFound("produit introuvable")
			}
			if !product.IsActive {
				return nil, invalidState(fmt.Sprintf("le produit %s est désactivé", product.Name))
			}
			line.productID = &pid
			line.unitPrice = product.UnitPrice
			line.taxRate = product.TaxRate
			if line.description == "" {
				line.description = product.Name
			}
			if line.unit == "" {
				line.unit = product.Unit
			}
		}

		// Explicit request values beat product defaults.
		if item.UnitPrice != nil {
			if item.UnitPrice.IsNegative() {
				return nil, validation(fmt.Sprintf("ligne %d : le prix unitaire ne peut pas être négatif", i+1))
			}
			line.unitPrice = *item.UnitPrice
		} else if line.productID == nil {
			return nil, validation(fmt.Sprintf("ligne %d : prix unitaire requis sans produit", i+1))
		}
		if item.TaxRate != nil {
			line.taxRate = *item.TaxRate
		}

		if line.description == "" {
			return nil, validation(fmt.Sprintf("ligne %d : description requise", i+1))
		}
		if line.unit == "" {
			line.unit = "unité"
		}

		resolved = append(resolved, line)
	}
	return resolved, nil
}
