package service

import (
	"context"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.ProductCreateRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req dto.ProductUpdateRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id, ownerID uuid.UUID) error
	Reactivate(ctx context.Context, id, ownerID uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, ownerID uuid.UUID, req dto.ProductCreateRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		OwnerID:           ownerID,
		Name:              req.Name,
		Description:       req.Description,
		SKU:               req.SKU,
		UnitPrice:         req.UnitPrice,
		TaxRate:           req.TaxRate,
		Unit:              req.Unit,
		IsService:         req.IsService,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          true,
	}
	if product.Unit == "" {
		product.Unit = "unité"
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("produit introuvable")
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, ownerID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id, ownerID uuid.UUID, req dto.ProductUpdateRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("produit introuvable")
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

// Deactivate is a soft delete: the product disappears from default listings
// but stays referenceable from historical document lines.
func (s *productService) Deactivate(ctx context.Context, id, ownerID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return notFound("produit introuvable")
	}
	if !product.IsActive {
		return invalidState("le produit est déjà désactivé")
	}
	product.IsActive = false
	return s.repo.Update(ctx, product)
}

func (s *productService) Reactivate(ctx context.Context, id, ownerID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return notFound("produit introuvable")
	}
	if product.IsActive {
		return invalidState("le produit est déjà actif")
	}
	product.IsActive = true
	return s.repo.Update(ctx, product)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		SKU:               p.SKU,
		UnitPrice:         p.UnitPrice,
		TaxRate:           p.TaxRate,
		PriceWithTax:      p.PriceWithTax().Round(2),
		Unit:              p.Unit,
		IsService:         p.IsService,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}
