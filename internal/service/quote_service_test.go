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

func quoteCreateReq(clientID uuid.UUID, items ...dto.LineItemRequest) dto.QuoteCreateRequest {
	return dto.QuoteCreateRequest{
		ClientID:     clientID.String(),
		IssueDate:    "2026-08-01",
		ValidityDate: "2026-09-01",
		Items:        items,
	}
}

// seedQuote stores a quote directly, bypassing the service, so tests can
// start from any status.
func seedQuote(env *testEnv, ownerID uuid.UUID, status string) *model.Quote {
	q := &model.Quote{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		ClientID:     uuid.New(),
		QuoteNumber:  fmt.Sprintf("DEV-2026-%05d", len(env.quoteRepo.quotes)+1),
		Status:       status,
		IssueDate:    time.Now().AddDate(0, 0, -10),
		ValidityDate: time.Now().AddDate(0, 0, 20),
		Items: []model.QuoteItem{
			{
				ID:          uuid.New(),
				Description: "Prestation",
				Quantity:    decimal.NewFromInt(2),
				Unit:        "unité",
				UnitPrice:   decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromInt(20),
			},
		},
	}
	q.CalculateTotals()
	env.quoteRepo.quotes[q.ID] = q
	return q
}

func TestCreateQuote_Numbering(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	resp, err := env.quoteSvc.Create(context.Background(), ownerID, quoteCreateReq(client.ID,
		dto.LineItemRequest{Description: "Devis initial", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(300)},
	))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("DEV-%d-00001", year), resp.QuoteNumber)
	assert.Equal(t, model.QuoteStatusDraft, resp.Status)
}

// Invoice and quote sequences are independent even within one owner.
func TestSequences_IndependentPerKind(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	client := seedClient(env.clientRepo, ownerID, "Dupont SARL")

	qResp, err := env.quoteSvc.Create(context.Background(), ownerID, quoteCreateReq(client.ID))
	require.NoError(t, err)
	iResp, err := env.invoiceSvc.Create(context.Background(), ownerID, invoiceCreateReq(client.ID))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("DEV-%d-00001", year), qResp.QuoteNumber)
	assert.Equal(t, fmt.Sprintf("FACT-%d-00001", year), iResp.InvoiceNumber)
}

func TestAcceptQuote(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusSent)

	resp, err := env.quoteSvc.Accept(context.Background(), q.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusAccepted, resp.Status)
}

func TestAcceptQuote_DraftRefuse(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusDraft)

	_, err := env.quoteSvc.Accept(context.Background(), q.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidTransition, service.KindOf(err))
}

// A client answering after the validity date still gets their acceptance
// recorded; expiry only shows up in the read model.
func TestAcceptQuote_ApresValidite(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusSent)
	q.ValidityDate = time.Now().AddDate(0, 0, -1)

	resp, err := env.quoteSvc.Accept(context.Background(), q.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusAccepted, resp.Status)
}

func TestRejectQuote_SentOnly(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()

	sent := seedQuote(env, ownerID, model.QuoteStatusSent)
	resp, err := env.quoteSvc.Reject(context.Background(), sent.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusRejected, resp.Status)

	accepted := seedQuote(env, ownerID, model.QuoteStatusAccepted)
	_, err = env.quoteSvc.Reject(context.Background(), accepted.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidTransition, service.KindOf(err))
}

func TestSendQuote_SansLignes(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusDraft)
	q.Items = nil

	_, err := env.quoteSvc.Send(context.Background(), q.ID, ownerID, dto.SendRequest{})
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

func TestConvertQuote(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusAccepted)

	// Tamper with the stored totals to prove the conversion copies them
	// verbatim instead of recomputing from the items.
	q.Total = decimal.NewFromInt(999)

	resp, err := env.quoteSvc.Convert(context.Background(), q.ID, ownerID)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("FACT-%d-00001", year), resp.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, "999", resp.Total.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Prestation", resp.Items[0].Description)

	// The draft falls due on the conversion day; the owner adjusts it later.
	assert.Equal(t, resp.IssueDate, resp.DueDate)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.DueDate)

	// The quote is now converted and linked to the new invoice.
	assert.Equal(t, model.QuoteStatusConverted, q.Status)
	require.NotNil(t, q.ConvertedInvoiceID)
	assert.Equal(t, resp.ID, q.ConvertedInvoiceID.String())
}

func TestConvertQuote_DejaConverti(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusAccepted)

	_, err := env.quoteSvc.Convert(context.Background(), q.ID, ownerID)
	require.NoError(t, err)

	_, err = env.quoteSvc.Convert(context.Background(), q.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindAlreadyConverted, service.KindOf(err))
}

func TestConvertQuote_NonAccepte(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusSent)

	_, err := env.quoteSvc.Convert(context.Background(), q.ID, ownerID)
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

func TestQuoteItems_AddRecomputesTotals(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusDraft)
	require.Equal(t, "240", q.Total.String())

	resp, err := env.quoteSvc.AddItem(context.Background(), q.ID, ownerID, dto.LineItemRequest{
		Description: "Option", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(100), TaxRate: decPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "360", resp.Total.String())

	// Line mutations are rejected once the quote left draft.
	q.Status = model.QuoteStatusSent
	_, err = env.quoteSvc.AddItem(context.Background(), q.ID, ownerID, dto.LineItemRequest{
		Description: "Trop tard", Quantity: decimal.NewFromInt(1), UnitPrice: decPtr(10),
	})
	require.Error(t, err)
	assert.Equal(t, service.KindInvalidState, service.KindOf(err))
}

// brokenItemQuoteRepo makes the line deletion fail with an infrastructure
// error rather than a missing row.
type brokenItemQuoteRepo struct {
	*stubQuoteRepo
	deleteErr error
}

func (r *brokenItemQuoteRepo) RemoveItemTx(_ *gorm.DB, _, _ uuid.UUID) error {
	return r.deleteErr
}

func TestRemoveQuoteItem_ErreurInfra(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	q := seedQuote(env, ownerID, model.QuoteStatusDraft)

	deleteErr := errors.New("connexion à la base perdue")
	broken := &brokenItemQuoteRepo{stubQuoteRepo: env.quoteRepo, deleteErr: deleteErr}
	svc := service.NewQuoteService(broken, env.invoiceRepo, env.clientRepo, env.productRepo, newStubSequenceRepo(), nil)

	// A storage failure must surface as-is, not masquerade as a missing line.
	_, err := svc.RemoveItem(context.Background(), q.ID, q.Items[0].ID, ownerID)
	require.ErrorIs(t, err, deleteErr)
	assert.Equal(t, service.ErrorKind(""), service.KindOf(err))
}
