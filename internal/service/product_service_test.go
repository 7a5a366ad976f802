package service_test

import (
	"context"
	"testing"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductSvc() (service.ProductService, *stubProductRepo) {
	repo := newStubProductRepo()
	return service.NewProductService(repo), repo
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newProductSvc()
	ownerID := uuid.New()

	resp, err := svc.Create(context.Background(), ownerID, dto.ProductCreateRequest{
		Name:      "Forfait maintenance",
		UnitPrice: decimal.NewFromFloat(49.90),
		TaxRate:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	// Price with tax is derived for display: 49.90 × 1.20 = 59.88.
	assert.Equal(t, "59.88", resp.PriceWithTax.String())
}

func TestDeactivateReactivateProduct(t *testing.T) {
	svc, repo := newProductSvc()
	ownerID := uuid.New()
	p := seedProduct(repo, ownerID, "Forfait", 10)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID, ownerID))
	assert.False(t, p.IsActive)

	err := svc.Deactivate(context.Background(), p.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))

	require.NoError(t, svc.Reactivate(context.Background(), p.ID, ownerID))
	assert.True(t, p.IsActive)

	err = svc.Reactivate(context.Background(), p.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

func TestProduct_OwnerScoping(t *testing.T) {
	svc, repo := newProductSvc()
	p := seedProduct(repo, uuid.New(), "Forfait", 10)

	_, err := svc.Get(context.Background(), p.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestProduct_IsLowStock(t *testing.T) {
	p := model.Product{StockQuantity: 3, LowStockThreshold: 5}
	assert.True(t, p.IsLowStock())

	p.StockQuantity = 10
	assert.False(t, p.IsLowStock())

	// Services carry no stock and never alert.
	p.IsService = true
	p.StockQuantity = 0
	assert.False(t, p.IsLowStock())
}
