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

func paymentReq(invoiceID uuid.UUID, amount float64) dto.PaymentCreateRequest {
	return dto.PaymentCreateRequest{
		InvoiceID:     invoiceID.String(),
		Amount:        decimal.NewFromFloat(amount),
		PaymentDate:   "2026-08-15",
		PaymentMethod: model.PaymentMethodBankTransfer,
	}
}

func TestCreatePayment_FullThenPaid(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	resp, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 100))
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Amount.String())
	assert.Equal(t, inv.InvoiceNumber, resp.InvoiceNumber)

	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.BalanceDue().IsZero())
}

func TestCreatePayment_PartialThenPartiallyPaid(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	_, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 40))
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, inv.Status)
	assert.Equal(t, "60", inv.BalanceDue().String())

	// Second partial payment completes the invoice.
	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 60))
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
}

func TestCreatePayment_ExceedsBalance(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	_, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 100.01))
	require.Error(t, err)
	assert.Equal(t, service.KindExceedsBalance, service.KindOf(err))
	assert.ErrorContains(t, err, "100.00")

	// Nothing was applied.
	assert.Equal(t, model.InvoiceStatusSent, inv.Status)
	assert.True(t, inv.AmountPaid.IsZero())
}

func TestCreatePayment_MontantInvalide(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	_, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 0))
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, -10))
	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestCreatePayment_StatusGuards(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()

	draft := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusDraft, 100)
	_, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(draft.ID, 50))
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))

	cancelled := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusCancelled, 100)
	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(cancelled.ID, 50))
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))

	paid := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusPaid, 100)
	paid.AmountPaid = decimal.NewFromInt(100)
	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(paid.ID, 50))
	require.Error(t, err)
	assert.Equal(t, service.KindAlreadyPaid, service.KindOf(err))
}

// The precondition order is fixed: document state wins over already-paid,
// which wins over amount validation.
func TestCreatePayment_PreconditionOrder(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()

	cancelled := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusCancelled, 100)
	cancelled.AmountPaid = decimal.NewFromInt(100)
	_, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(cancelled.ID, -5))
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))

	paid := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusPaid, 100)
	paid.AmountPaid = decimal.NewFromInt(100)
	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(paid.ID, -5))
	require.Error(t, err)
	assert.Equal(t, service.KindAlreadyPaid, service.KindOf(err))
}

func TestCreatePayment_FactureIntrouvable(t *testing.T) {
	env := newTestEnv()
	_, err := env.paymentSvc.Create(context.Background(), uuid.New(), paymentReq(uuid.New(), 50))
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestDeletePayment_ReversesApplication(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	p1, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 40))
	require.NoError(t, err)
	_, err = env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 60))
	require.NoError(t, err)
	require.Equal(t, model.InvoiceStatusPaid, inv.Status)

	// Deleting the first payment leaves a partially paid invoice.
	require.NoError(t, env.paymentSvc.Delete(context.Background(), uuid.MustParse(p1.ID), ownerID))
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, inv.Status)
	assert.Equal(t, "60", inv.AmountPaid.String())
	assert.Equal(t, "40", inv.BalanceDue().String())
}

func TestDeletePayment_LastPaymentBackToSent(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	p, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 100))
	require.NoError(t, err)
	require.Equal(t, model.InvoiceStatusPaid, inv.Status)

	require.NoError(t, env.paymentSvc.Delete(context.Background(), uuid.MustParse(p.ID), ownerID))
	assert.Equal(t, model.InvoiceStatusSent, inv.Status)
	assert.True(t, inv.AmountPaid.IsZero())
}

func TestDeletePayment_ClampsAtZero(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusPartiallyPaid, 100)
	inv.AmountPaid = decimal.NewFromInt(30)

	// Payment recorded for more than the remaining amount_paid; reversal
	// never drives the invoice negative.
	p := &model.Payment{ID: uuid.New(), InvoiceID: inv.ID, Amount: decimal.NewFromInt(50)}
	env.paymentRepo.payments[p.ID] = p

	require.NoError(t, env.paymentSvc.Delete(context.Background(), p.ID, ownerID))
	assert.True(t, inv.AmountPaid.IsZero())
	assert.Equal(t, model.InvoiceStatusSent, inv.Status)
}

func TestDeletePayment_OtherOwner(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	inv := seedInvoice(env.invoiceRepo, ownerID, model.InvoiceStatusSent, 100)

	p, err := env.paymentSvc.Create(context.Background(), ownerID, paymentReq(inv.ID, 50))
	require.NoError(t, err)

	err = env.paymentSvc.Delete(context.Background(), uuid.MustParse(p.ID), uuid.New())
	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}
