package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"
	"github.com/naimlawani01/facturerapide-api/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.InvoiceCreateRequest) (*dto.InvoiceResponse, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req dto.InvoiceUpdateRequest) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	AddItem(ctx context.Context, id, ownerID uuid.UUID, req dto.LineItemRequest) (*dto.InvoiceResponse, error)
	RemoveItem(ctx context.Context, id, itemID, ownerID uuid.UUID) (*dto.InvoiceResponse, error)
	Send(ctx context.Context, id, ownerID uuid.UUID, req dto.SendRequest) (*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	repo        repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	seqRepo     repository.SequenceRepository
	dispatcher  *worker.Dispatcher
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.SequenceRepository,
	dispatcher *worker.Dispatcher,
) InvoiceService {
	return &invoiceService{
		repo:        repo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		seqRepo:     seqRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (s *invoiceService) Create(ctx context.Context, ownerID uuid.UUID, req dto.InvoiceCreateRequest) (*dto.InvoiceResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, validation("client_id invalide")
	}
	client, err := s.clientRepo.FindByID(ctx, clientID, ownerID)
	if err != nil {
		return nil, notFound("client introuvable")
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return nil, validation("issue_date invalide")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, validation("due_date invalide")
	}
	if dueDate.Before(issueDate) {
		return nil, validation("la date d'échéance ne peut pas précéder la date d'émission")
	}

	// Pre-flight: resolve products and prices outside the transaction.
	lines, err := resolveLines(ctx, s.productRepo, ownerID, req.Items)
	if err != nil {
		return nil, err
	}

	var inv model.Invoice
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		year := time.Now().Year()
		seq, err := s.seqRepo.NextValueTx(tx, ownerID, model.DocumentKindInvoice, year)
		if err != nil {
			return err
		}

		inv = model.Invoice{
			OwnerID:       ownerID,
			ClientID:      clientID,
			InvoiceNumber: fmt.Sprintf("FACT-%d-%05d", year, seq),
			Status:        model.InvoiceStatusDraft,
			IssueDate:     issueDate,
			DueDate:       dueDate,
			Notes:         req.Notes,
			Terms:         req.Terms,
		}
		for _, l := range lines {
			inv.Items = append(inv.Items, model.InvoiceItem{
				ProductID:       l.productID,
				Description:     l.description,
				Quantity:        l.quantity,
				Unit:            l.unit,
				UnitPrice:       l.unitPrice,
				TaxRate:         l.taxRate,
				DiscountPercent: l.discountPercent,
			})
		}
		inv.CalculateTotals()
		return s.repo.CreateTx(tx, &inv)
	})
	if txErr != nil {
		return nil, txErr
	}

	inv.Client = client
	resp := invoiceToResponse(&inv, time.Now())
	return &resp, nil
}

func (s *invoiceService) Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	resp := invoiceToResponse(inv, time.Now())
	return &resp, nil
}

func (s *invoiceService) List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	invoices, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		data = append(data, invoiceToResponse(&invoices[i], now))
	}
	return &dto.InvoiceListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *invoiceService) Update(ctx context.Context, id, ownerID uuid.UUID, req dto.InvoiceUpdateRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, invalidState("seule une facture en brouillon peut être modifiée")
	}

	if req.ClientID != nil {
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, validation("client_id invalide")
		}
		client, err := s.clientRepo.FindByID(ctx, clientID, ownerID)
		if err != nil {
			return nil, notFound("client introuvable")
		}
		inv.ClientID = clientID
		inv.Client = client
	}
	if req.IssueDate != nil {
		d, err := parseDate(*req.IssueDate)
		if err != nil {
			return nil, validation("issue_date invalide")
		}
		inv.IssueDate = d
	}
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, validation("due_date invalide")
		}
		inv.DueDate = d
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, validation("la date d'échéance ne peut pas précéder la date d'émission")
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}
	if req.Terms != nil {
		inv.Terms = req.Terms
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := invoiceToResponse(inv, time.Now())
	return &resp, nil
}

func (s *invoiceService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return notFound("facture introuvable")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return invalidState("seule une facture en brouillon peut être supprimée")
	}
	return s.repo.Delete(ctx, inv)
}

func (s *invoiceService) AddItem(ctx context.Context, id, ownerID uuid.UUID, req dto.LineItemRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, invalidState("les lignes ne peuvent être modifiées que sur un brouillon")
	}

	lines, err := resolveLines(ctx, s.productRepo, ownerID, []dto.LineItemRequest{req})
	if err != nil {
		return nil, err
	}
	l := lines[0]
	item := model.InvoiceItem{
		InvoiceID:       inv.ID,
		ProductID:       l.productID,
		Description:     l.description,
		Quantity:        l.quantity,
		Unit:            l.unit,
		UnitPrice:       l.unitPrice,
		TaxRate:         l.taxRate,
		DiscountPercent: l.discountPercent,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AddItemTx(tx, &item); err != nil {
			return err
		}
		inv.Items = append(inv.Items, item)
		inv.CalculateTotals()
		return s.repo.SaveTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := invoiceToResponse(inv, time.Now())
	return &resp, nil
}

func (s *invoiceService) RemoveItem(ctx context.Context, id, itemID, ownerID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, invalidState("les lignes ne peuvent être modifiées que sur un brouillon")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.RemoveItemTx(tx, inv.ID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("ligne introuvable")
			}
			return err
		}
		kept := inv.Items[:0]
		for _, it := range inv.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		inv.Items = kept
		inv.CalculateTotals()
		return s.repo.SaveTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := invoiceToResponse(inv, time.Now())
	return &resp, nil
}

// Send transitions a draft to sent, stamps sent_at and enqueues the PDF
// generation job. Email delivery is best-effort and never blocks the
// transition.
func (s *invoiceService) Send(ctx context.Context, id, ownerID uuid.UUID, req dto.SendRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, invalidTransition("seule une facture en brouillon peut être envoyée")
	}
	if len(inv.Items) == 0 {
		return nil, invalidState("impossible d'envoyer une facture sans lignes")
	}

	now := time.Now()
	inv.Status = model.InvoiceStatusSent
	inv.SentAt = &now
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.enqueueDocument(ctx, inv, req.Message)

	resp := invoiceToResponse(inv, now)
	return &resp, nil
}

func (s *invoiceService) Cancel(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("facture introuvable")
	}
	switch inv.Status {
	case model.InvoiceStatusPaid:
		return nil, invalidTransition("une facture payée ne peut pas être annulée")
	case model.InvoiceStatusCancelled:
		return nil, invalidTransition("la facture est déjà annulée")
	}

	inv.Status = model.InvoiceStatusCancelled
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := invoiceToResponse(inv, time.Now())
	return &resp, nil
}

// enqueueDocument dispatches the async PDF/email job. Fire and forget.
func (s *invoiceService) enqueueDocument(ctx context.Context, inv *model.Invoice, message *string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.DocumentJobPayload{
		Kind:       worker.DocInvoice,
		DocumentID: inv.ID.String(),
		OwnerID:    inv.OwnerID.String(),
		Message:    message,
	}
	if inv.Client != nil && inv.Client.Email != nil && *inv.Client.Email != "" {
		payload.ToEmail = inv.Client.Email
	}
	_ = s.dispatcher.EnqueueDocument(ctx, payload)
}

func invoiceToResponse(inv *model.Invoice, now time.Time) dto.InvoiceResponse {
	items := make([]dto.LineItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		items = append(items, lineItemToResponse(&inv.Items[i]))
	}
	resp := dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID.String(),
		Status:        inv.Status,
		IssueDate:     inv.IssueDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxTotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue(),
		IsOverdue:     inv.IsOverdue(now),
		PDFPath:       inv.PDFPath,
		Items:         items,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}
	if inv.SentAt != nil {
		sentAt := inv.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}

func lineItemToResponse(it *model.InvoiceItem) dto.LineItemResponse {
	resp := dto.LineItemResponse{
		ID:              it.ID.String(),
		Description:     it.Description,
		Quantity:        it.Quantity,
		Unit:            it.Unit,
		UnitPrice:       it.UnitPrice,
		TaxRate:         it.TaxRate,
		DiscountPercent: it.DiscountPercent,
		Subtotal:        it.Subtotal().Round(2),
		TaxAmount:       it.TaxAmount().Round(2),
		Total:           it.Total().Round(2),
	}
	if it.ProductID != nil {
		pid := it.ProductID.String()
		resp.ProductID = &pid
	}
	return resp
}
