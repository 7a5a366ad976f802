package worker

// document_worker.go
// Processes PDF generation jobs from QueueDocuments. Renders the invoice,
// quote or payment receipt, stores the resulting path on the document and
// optionally enqueues the email job carrying the attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/naimlawani01/facturerapide-api/internal/infra"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Document kinds handled by this worker.
const (
	DocInvoice = "invoice"
	DocQuote   = "quote"
	DocReceipt = "receipt"
)

// DocumentJobPayload is the job envelope sent to QueueDocuments.
type DocumentJobPayload struct {
	Kind       string  `json:"kind"` // invoice | quote | receipt
	DocumentID string  `json:"document_id"`
	PaymentID  *string `json:"payment_id,omitempty"` // receipt only
	OwnerID    string  `json:"owner_id"`
	ToEmail    *string `json:"to_email,omitempty"`
	Message    *string `json:"message,omitempty"`
}

type DocumentWorker struct {
	invoiceRepo repository.InvoiceRepository
	quoteRepo   repository.QuoteRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	dispatcher  *Dispatcher
	storagePath string
}

func NewDocumentWorker(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *DocumentWorker {
	return &DocumentWorker{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		storagePath: storagePath,
	}
}

func (w *DocumentWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DocumentJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("document_worker: invalid payload")
		return
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		log.Error().Str("document_id", payload.DocumentID).Msg("document_worker: invalid document_id")
		return
	}
	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		log.Error().Str("owner_id", payload.OwnerID).Msg("document_worker: invalid owner_id")
		return
	}

	owner, err := w.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Str("owner_id", payload.OwnerID).Msg("document_worker: owner not found")
		return
	}

	switch payload.Kind {
	case DocInvoice:
		w.processInvoice(ctx, docID, owner, payload)
	case DocQuote:
		w.processQuote(ctx, docID, owner, payload)
	case DocReceipt:
		w.processReceipt(ctx, docID, owner, payload)
	default:
		log.Warn().Str("kind", payload.Kind).Msg("document_worker: unknown document kind")
	}
}

func (w *DocumentWorker) processInvoice(ctx context.Context, id uuid.UUID, owner *model.User, payload DocumentJobPayload) {
	inv, err := w.invoiceRepo.FindByID(ctx, id, owner.ID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", id.String()).Msg("document_worker: invoice not found")
		return
	}

	pdfPath, err := infra.GenerateInvoicePDF(inv, owner, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", id.String()).Msg("document_worker: invoice PDF generation failed")
		return
	}
	if err := w.invoiceRepo.UpdatePDFPath(ctx, id, pdfPath); err != nil {
		log.Warn().Err(err).Str("invoice_id", id.String()).Msg("document_worker: failed to store pdf path")
	}
	log.Info().Str("pdf", pdfPath).Str("invoice_id", id.String()).Msg("document_worker: invoice PDF generated")

	w.maybeEnqueueEmail(ctx, payload,
		fmt.Sprintf("Facture %s", inv.InvoiceNumber),
		fmt.Sprintf("Veuillez trouver ci-joint la facture %s d'un montant de %s €.", inv.InvoiceNumber, inv.Total.StringFixed(2)),
		pdfPath)
}

func (w *DocumentWorker) processQuote(ctx context.Context, id uuid.UUID, owner *model.User, payload DocumentJobPayload) {
	q, err := w.quoteRepo.FindByID(ctx, id, owner.ID)
	if err != nil {
		log.Error().Err(err).Str("quote_id", id.String()).Msg("document_worker: quote not found")
		return
	}

	pdfPath, err := infra.GenerateQuotePDF(q, owner, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("quote_id", id.String()).Msg("document_worker: quote PDF generation failed")
		return
	}
	if err := w.quoteRepo.UpdatePDFPath(ctx, id, pdfPath); err != nil {
		log.Warn().Err(err).Str("quote_id", id.String()).Msg("document_worker: failed to store pdf path")
	}
	log.Info().Str("pdf", pdfPath).Str("quote_id", id.String()).Msg("document_worker: quote PDF generated")

	w.maybeEnqueueEmail(ctx, payload,
		fmt.Sprintf("Devis %s", q.QuoteNumber),
		fmt.Sprintf("Veuillez trouver ci-joint le devis %s d'un montant de %s €.", q.QuoteNumber, q.Total.StringFixed(2)),
		pdfPath)
}

func (w *DocumentWorker) processReceipt(ctx context.Context, invoiceID uuid.UUID, owner *model.User, payload DocumentJobPayload) {
	if payload.PaymentID == nil {
		log.Error().Str("invoice_id", invoiceID.String()).Msg("document_worker: receipt job without payment_id")
		return
	}
	paymentID, err := uuid.Parse(*payload.PaymentID)
	if err != nil {
		log.Error().Str("payment_id", *payload.PaymentID).Msg("document_worker: invalid payment_id")
		return
	}

	inv, err := w.invoiceRepo.FindByID(ctx, invoiceID, owner.ID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("document_worker: invoice not found")
		return
	}
	payment, err := w.paymentRepo.FindByID(ctx, paymentID, owner.ID)
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID.String()).Msg("document_worker: payment not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(inv, payment, owner, inv.Client, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID.String()).Msg("document_worker: receipt PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("payment_id", paymentID.String()).Msg("document_worker: receipt PDF generated")

	w.maybeEnqueueEmail(ctx, payload,
		fmt.Sprintf("Reçu de paiement — Facture %s", inv.InvoiceNumber),
		fmt.Sprintf("Nous confirmons la réception de votre paiement de %s € sur la facture %s.", payment.Amount.StringFixed(2), inv.InvoiceNumber),
		pdfPath)
}

func (w *DocumentWorker) maybeEnqueueEmail(ctx context.Context, payload DocumentJobPayload, subject, body, pdfPath string) {
	if payload.ToEmail == nil || *payload.ToEmail == "" {
		return
	}
	if payload.Message != nil && *payload.Message != "" {
		body = *payload.Message + "\n\n" + body
	}
	emailJob := EmailJobPayload{
		ToEmail: *payload.ToEmail,
		Subject: subject,
		Body:    body,
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *payload.ToEmail).Msg("document_worker: failed to enqueue email")
	}
}
