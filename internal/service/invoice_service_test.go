package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func invoiceCreateReq(clientID uuid.UUID, items ...dto.LineItemRequest) dto.InvoiceCreateRequest {
	return dto.InvoiceCreateRequest{
		ClientID:  clientID.String(),
		IssueDate: "2026-08-01",
		DueDate:   "2026-08-31",
		Items:     items,
	}
}

func TestCreateInvoice_NumberingAndTotals(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{
			Description: "Prestation de conseil",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decPtr(100),
			TaxRate:     decPtr(20),
		},
	))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("FACT-%d-00001", year), resp.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, "200", resp.Subtotal.String())
	assert.Equal(t, "40", resp.TaxTotal.String())
	assert.Equal(t, "240", resp.Total.String())
	assert.Equal(t, "240", resp.BalanceDue.String())

	// Second invoice for the same owner gets the next sequence value.
	resp2, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FACT-%d-00002", year), resp2.InvoiceNumber)

	// A different owner starts its own sequence at 1.
	otherOwner := uuid.New()
	otherClient := seedClient(env.clientRepo, otherOwner, "Martin SA")
	resp3, err := env.invoiceSvc.Create(context.Background(), otherOwner, invoiceCreateReq(otherClient.ID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FACT-%d-00001", year), resp3.InvoiceNumber)
}

func TestCreateInvoice_ProductDefaults(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")
	p := seedProduct(env.productRepo, ownerID, "Maintenance mensuelle", 49.90)
	p.TaxRate = decimal.NewFromFloat(10)
	p.Unit = "mois"

	pid := p.ID.String()
	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{ProductID: &pid, Quantity: decimal.NewFromInt(3)},
	))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	// Description, price, rate and unit all default from the product.
	it := resp.Items[0]
	assert.Equal(t, "Maintenance mensuelle", it.Description)
	assert.Equal(t, "49.9", it.UnitPrice.String())
	assert.Equal(t, "10", it.TaxRate.String())
	assert.Equal(t, "mois", it.Unit)
	assert.Equal(t, "149.7", it.Subtotal.String())
}

func TestCreateInvoice_InactiveProduct(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")
	p := seedProduct(env.productRepo, ownerID, "Ancien forfait", 10)
	p.IsActive = false

	pid := p.ID.String()
	_, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{ProductID: &pid, Quantity: decimal.NewFromInt(1)},
	))
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
	assert.ErrorContains(t, err, "désactivé")
}

func TestCreateInvoice_LineValidation(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	_, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{Description: "ok", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(10)},
		dto.LineItemRequest{Description: "ko", Quantity: decimal.Zero, UnitPrice: decPtr(10)},
	))
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
	assert.ErrorContains(t, err, "ligne 2")
}

func TestCreateInvoice_DueBeforeIssue(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	_, err := env.invoiceSvc.Create(context.Background(), ownerID, dto.InvoiceCreateRequest{
		ClientID:  client.ID.String(),
		IssueDate: "2026-08-31",
		DueDate:   "2026-08-01",
	})
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestCreateInvoice_UnknownClient(t *testing.T) {
	env := newTestEnv()
	_, err := env.invoiceSvc.Create(context.Background(), uuid.New(), invoiceCreateReq(uuid.New()))
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestGetInvoice_OtherOwner(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusDraft, 100)

	// Cross-tenant reads surface as not found, never as forbidden.
	_, err := env.invoiceSvc.Get(context.Background(), inv.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestUpdateInvoice_DraftOnly(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	_, err := env.invoiceSvc.Update(context.Background(), inv.ID, ownerID, dto.InvoiceUpdateRequest{
		Notes: strPtr("modif"),
	})
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

func TestSendInvoice(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{Description: "Audit", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(500)},
	))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	sent, err := env.invoiceSvc.Send(context.Background(), id, ownerID, dto.SendRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	// Sending twice is an invalid transition.
	_, err = env.invoiceSvc.Send(context.Background(), id, ownerID, dto.SendRequest{})
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidTransition, service.KindOf(err))
}

func TestSendInvoice_SansLignes(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID))
	require.NoError(t, err)

	_, err = env.invoiceSvc.Send(context.Background(), uuid.MustParse(resp.ID), ownerID, dto.SendRequest{})
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

func TestCancelInvoice(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()

	sent := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)
	resp, err := env.invoiceSvc.Cancel(context.Background(), sent.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, resp.Status)

	// Cancelling again fails.
	_, err = env.invoiceSvc.Cancel(context.Background(), sent.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidTransition, service.KindOf(err))

	// A paid invoice can never be cancelled.
	paid := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusPaid, 100)
	_, err = env.invoiceSvc.Cancel(context.Background(), paid.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidTransition, service.KindOf(err))
}

func TestInvoiceItems_AddRemoveRecomputesTotals(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{Description: "Ligne A", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(100), TaxRate: decPtr(20)},
	))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	assert.Equal(t, "120", resp.Total.String())

	resp, err = env.invoiceSvc.AddItem(context.Background(), id, ownerID, dto.LineItemRequest{
		Description: "Ligne B", Quantity: decimal.NewFromInt(2), UnitPrice: decPtr(50), TaxRate: decPtr(20),
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "240", resp.Total.String())

	itemID := uuid.MustParse(resp.Items[1].ID)
	resp, err = env.invoiceSvc.RemoveItem(context.Background(), id, itemID, ownerID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "120", resp.Total.String())

	// Removing an unknown line is a not found.
	_, err = env.invoiceSvc.RemoveItem(context.Background(), id, uuid.New(), ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

// brokenItemInvoiceRepo makes the line deletion fail with an infrastructure
// error rather than a missing row.
type brokenItemInvoiceRepo struct {
	*stubInvoiceRepo
	deleteErr error
}

func (r *brokenItemInvoiceRepo) RemoveItemTx(_ *gorm.DB, _, _ uuid.UUID) error {
	return r.deleteErr
}

func TestRemoveInvoiceItem_ErreurInfra(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID,
		dto.LineItemRequest{Description: "Ligne A", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(100), TaxRate: decPtr(20)},
	))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)
	itemID := uuid.MustParse(resp.Items[0].ID)

	deleteErr := errors.New("connexion à la base perdue")
	broken := &brokenItemInvoiceRepo{stubInvoiceRepo: env.invoiceRepo, deleteErr: deleteErr}
	svc := service.NewInvoiceService(broken, env.clientRepo, env.productRepo, newStubSequenceRepo(), nil)

	// A storage failure must surface as-is, not masquerade as a missing line.
	_, err = svc.RemoveItem(context.Background(), id, itemID, ownerID)
	require.ErrorIs(t, err, deleteErr)
	assert.Equal(t, service.ErrorKind(""), service.KindOf(err))
}

func TestDeleteInvoice_DraftOnly(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()

	sent := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)
	err := env.invoiceSvc.Delete(context.Background(), sent.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))

	draft := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusDraft, 100)
	require.NoError(t, env.invoiceSvc.Delete(context.Background(), draft.ID, ownerID))
	_, err = env.invoiceSvc.Get(context.Background(), draft.ID, ownerID)
	assert.Error(t, err)
}
