package service

import (
	"context"
	"fmt"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"
	"github.com/naimlawani01/facturerapide-api/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.PaymentCreateRequest) (*dto.PaymentResponse, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.PaymentResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.PaymentFilter) (*dto.PaymentListResponse, error)
	ListByInvoice(ctx context.Context, invoiceID, ownerID uuid.UUID) ([]dto.PaymentResponse, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type paymentService struct {
	repo        repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	dispatcher  *worker.Dispatcher
}

func NewPaymentService(
	repo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	dispatcher *worker.Dispatcher,
) PaymentService {
	return &paymentService{repo: repo, invoiceRepo: invoiceRepo, dispatcher: dispatcher}
}

// Create applies a payment to an invoice. The invoice row is locked for the
// whole transaction so concurrent payments serialize; the precondition order
// is fixed: document state, already paid, amount sign, balance.
func (s *paymentService) Create(ctx context.Context, ownerID uuid.UUID, req dto.PaymentCreateRequest) (*dto.PaymentResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, validation("invoice_id invalide")
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return nil, validation("payment_date invalide")
	}

	var payment model.Payment
	var invoiceNumber string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.invoiceRepo.FindForUpdateTx(tx, invoiceID, ownerID)
		if err != nil {
			return notFound("facture introuvable")
		}

		switch inv.Status {
		case model.InvoiceStatusCancelled:
			return invalidState("impossible d'enregistrer un paiement sur une facture annulée")
		case model.InvoiceStatusDraft:
			return invalidState("impossible d'enregistrer un paiement sur une facture en brouillon")
		}
		if inv.IsFullyPaid() {
			return alreadyPaid("la facture est déjà entièrement payée")
		}
		if !req.Amount.IsPositive() {
			return validation("le montant du paiement doit être positif")
		}
		balance := inv.BalanceDue()
		if req.Amount.GreaterThan(balance) {
			return exceedsBalance(fmt.Sprintf("le montant dépasse le solde restant dû (%s €)", balance.StringFixed(2)))
		}

		payment = model.Payment{
			InvoiceID:     inv.ID,
			Amount:        req.Amount,
			PaymentDate:   paymentDate,
			PaymentMethod: req.PaymentMethod,
			Reference:     req.Reference,
			Notes:         req.Notes,
		}
		if err := s.repo.CreateTx(tx, &payment); err != nil {
			return err
		}

		inv.AmountPaid = inv.AmountPaid.Add(req.Amount)
		if inv.IsFullyPaid() {
			inv.Status = model.InvoiceStatusPaid
		} else {
			inv.Status = model.InvoiceStatusPartiallyPaid
		}
		invoiceNumber = inv.InvoiceNumber
		return s.invoiceRepo.SaveTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.enqueueReceipt(ctx, invoiceID, ownerID, payment.ID)

	resp := paymentToResponse(&payment, invoiceNumber)
	return &resp, nil
}

func (s *paymentService) Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("paiement introuvable")
	}
	resp := paymentToResponse(payment, "")
	return &resp, nil
}

func (s *paymentService) List(ctx context.Context, ownerID uuid.UUID, filter dto.PaymentFilter) (*dto.PaymentListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	payments, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		data = append(data, paymentToResponse(&payments[i], ""))
	}
	return &dto.PaymentListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID, ownerID uuid.UUID) ([]dto.PaymentResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	payments, err := s.repo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		data = append(data, paymentToResponse(&payments[i], inv.InvoiceNumber))
	}
	return data, nil
}

// Delete reverses a payment: the invoice's amount_paid drops by the payment
// amount (never below zero) and its status is re-derived from the remaining
// amount.
func (s *paymentService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	payment, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return notFound("paiement introuvable")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.invoiceRepo.FindForUpdateTx(tx, payment.InvoiceID, ownerID)
		if err != nil {
			return notFound("facture introuvable")
		}
		if err := s.repo.DeleteTx(tx, payment.ID); err != nil {
			return notFound("paiement introuvable")
		}

		inv.AmountPaid = inv.AmountPaid.Sub(payment.Amount)
		if inv.AmountPaid.IsNegative() {
			inv.AmountPaid = decimal.Zero
		}
		switch inv.Status {
		case model.InvoiceStatusPaid, model.InvoiceStatusPartiallyPaid:
			if inv.AmountPaid.IsZero() {
				inv.Status = model.InvoiceStatusSent
			} else {
				inv.Status = model.InvoiceStatusPartiallyPaid
			}
		}
		return s.invoiceRepo.SaveTx(tx, inv)
	})
}

// enqueueReceipt dispatches the async receipt PDF job. Best effort.
func (s *paymentService) enqueueReceipt(ctx context.Context, invoiceID, ownerID, paymentID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID, ownerID)
	if err != nil {
		return
	}
	pid := paymentID.String()
	payload := worker.DocumentJobPayload{
		Kind:       worker.DocReceipt,
		DocumentID: invoiceID.String(),
		PaymentID:  &pid,
		OwnerID:    ownerID.String(),
	}
	if inv.Client != nil && inv.Client.Email != nil && *inv.Client.Email != "" {
		payload.ToEmail = inv.Client.Email
	}
	_ = s.dispatcher.EnqueueDocument(ctx, payload)
}

func paymentToResponse(p *model.Payment, invoiceNumber string) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID.String(),
		InvoiceID:     p.InvoiceID.String(),
		InvoiceNumber: invoiceNumber,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
