package service_test

import (
	"context"
	"fmt"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubClientRepo is an in-memory ClientRepository for testing.
type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClientRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.ClientFilter) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	c, ok := r.clients[id]
	if !ok || c.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.clients, id)
	return nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubInvoiceRepo is an in-memory InvoiceRepository. The TX handle is always
// nil in tests; runTx calls its callback directly in that mode.
type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindForUpdateTx(_ *gorm.DB, id, ownerID uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(context.Background(), id, ownerID)
}

func (r *stubInvoiceRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.OwnerID == ownerID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) Save(_ context.Context, inv *model.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) SaveTx(_ *gorm.DB, inv *model.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, inv *model.Invoice) error {
	delete(r.invoices, inv.ID)
	return nil
}

func (r *stubInvoiceRepo) AddItemTx(_ *gorm.DB, item *model.InvoiceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return nil
}

func (r *stubInvoiceRepo) RemoveItemTx(_ *gorm.DB, invoiceID, itemID uuid.UUID) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, it := range inv.Items {
		if it.ID == itemID {
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) UpdatePDFPath(_ context.Context, id uuid.UUID, path string) error {
	if inv, ok := r.invoices[id]; ok {
		inv.PDFPath = &path
	}
	return nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// stubQuoteRepo is an in-memory QuoteRepository.
type stubQuoteRepo struct {
	quotes map[uuid.UUID]*model.Quote
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{quotes: make(map[uuid.UUID]*model.Quote)}
}

func (r *stubQuoteRepo) CreateTx(_ *gorm.DB, q *model.Quote) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	for i := range q.Items {
		if q.Items[i].ID == uuid.Nil {
			q.Items[i].ID = uuid.New()
		}
		q.Items[i].QuoteID = q.ID
	}
	r.quotes[q.ID] = q
	return nil
}

func (r *stubQuoteRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*model.Quote, error) {
	q, ok := r.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (r *stubQuoteRepo) FindForUpdateTx(_ *gorm.DB, id, ownerID uuid.UUID) (*model.Quote, error) {
	return r.FindByID(context.Background(), id, ownerID)
}

func (r *stubQuoteRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.QuoteFilter) ([]model.Quote, int64, error) {
	var out []model.Quote
	for _, q := range r.quotes {
		if q.OwnerID == ownerID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubQuoteRepo) Save(_ context.Context, q *model.Quote) error {
	r.quotes[q.ID] = q
	return nil
}

func (r *stubQuoteRepo) SaveTx(_ *gorm.DB, q *model.Quote) error {
	r.quotes[q.ID] = q
	return nil
}

func (r *stubQuoteRepo) Delete(_ context.Context, q *model.Quote) error {
	delete(r.quotes, q.ID)
	return nil
}

func (r *stubQuoteRepo) AddItemTx(_ *gorm.DB, item *model.QuoteItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return nil
}

func (r *stubQuoteRepo) RemoveItemTx(_ *gorm.DB, quoteID, itemID uuid.UUID) error {
	q, ok := r.quotes[quoteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, it := range q.Items {
		if it.ID == itemID {
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubQuoteRepo) FindItemsTx(_ *gorm.DB, quoteID uuid.UUID) ([]model.QuoteItem, error) {
	q, ok := r.quotes[quoteID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q.Items, nil
}

func (r *stubQuoteRepo) UpdatePDFPath(_ context.Context, id uuid.UUID, path string) error {
	if q, ok := r.quotes[id]; ok {
		q.PDFPath = &path
	}
	return nil
}

func (r *stubQuoteRepo) DB() *gorm.DB { return nil }

var _ repository.QuoteRepository = (*stubQuoteRepo)(nil)

// stubPaymentRepo is an in-memory PaymentRepository. Owner scoping goes
// through the invoice stub, mirroring the JOIN the real repository does.
type stubPaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
	invoices *stubInvoiceRepo
}

func newStubPaymentRepo(invoices *stubInvoiceRepo) *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[uuid.UUID]*model.Payment), invoices: invoices}
}

func (r *stubPaymentRepo) CreateTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments[p.ID] = p
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	inv, ok := r.invoices.invoices[p.InvoiceID]
	if !ok || inv.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPaymentRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.PaymentFilter) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if inv, ok := r.invoices.invoices[p.InvoiceID]; ok && inv.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPaymentRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.payments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

// stubSequenceRepo hands out per owner/kind/year counters like the upsert
// the real repository runs.
type stubSequenceRepo struct {
	counters map[string]int64
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[string]int64)}
}

func (r *stubSequenceRepo) NextValueTx(_ *gorm.DB, ownerID uuid.UUID, kind string, year int) (int64, error) {
	key := fmt.Sprintf("%s|%s|%d", ownerID, kind, year)
	r.counters[key]++
	return r.counters[key], nil
}

var _ repository.SequenceRepository = (*stubSequenceRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

type testEnv struct {
	invoiceSvc service.InvoiceService
	quoteSvc   service.QuoteService
	paymentSvc service.PaymentService

	invoiceRepo *stubInvoiceRepo
	quoteRepo   *stubQuoteRepo
	paymentRepo *stubPaymentRepo
	clientRepo  *stubClientRepo
	productRepo *stubProductRepo
}

func newTestEnv() *testEnv {
	clientRepo := newStubClientRepo()
	productRepo := newStubProductRepo()
	invoiceRepo := newStubInvoiceRepo()
	quoteRepo := newStubQuoteRepo()
	paymentRepo := newStubPaymentRepo(invoiceRepo)
	seqRepo := newStubSequenceRepo()

	return &testEnv{
		invoiceSvc:  service.NewInvoiceService(invoiceRepo, clientRepo, productRepo, seqRepo, nil),
		quoteSvc:    service.NewQuoteService(quoteRepo, invoiceRepo, clientRepo, productRepo, seqRepo, nil),
		paymentSvc:  service.NewPaymentService(paymentRepo, invoiceRepo, nil),
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

func seedClient(repo *stubClientRepo, ownerID uuid.UUID, name string) *model.Client {
	c := &model.Client{ID: uuid.New(), OwnerID: ownerID, Name: name, Country: "France"}
	repo.clients[c.ID] = c
	return c
}

func seedProduct(repo *stubProductRepo, ownerID uuid.UUID, name string, price float64) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		UnitPrice: decimal.NewFromFloat(price),
		TaxRate:   decimal.NewFromInt(20),
		Unit:      "unité",
		IsActive:  true,
	}
	repo.products[p.ID] = p
	return p
}

func seedInvoice(repo *stubInvoiceRepo, ownerID uuid.UUID, status string, total float64) *model.Invoice {
	inv := &model.Invoice{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		ClientID:      uuid.New(),
		InvoiceNumber: fmt.Sprintf("FACT-2026-%05d", len(repo.invoices)+1),
		Status:        status,
		Subtotal:      decimal.NewFromFloat(total),
		Total:         decimal.NewFromFloat(total),
		AmountPaid:    decimal.Zero,
	}
	repo.invoices[inv.ID] = inv
	return inv
}
