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

type QuoteService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.QuoteCreateRequest) (*dto.QuoteResponse, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.QuoteFilter) (*dto.QuoteListResponse, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req dto.QuoteUpdateRequest) (*dto.QuoteResponse, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	AddItem(ctx context.Context, id, ownerID uuid.UUID, req dto.LineItemRequest) (*dto.QuoteResponse, error)
	RemoveItem(ctx context.Context, id, itemID, ownerID uuid.UUID) (*dto.QuoteResponse, error)
	Send(ctx context.Context, id, ownerID uuid.UUID, req dto.SendRequest) (*dto.QuoteResponse, error)
	Accept(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error)
	Reject(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error)
	Convert(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error)
}

type quoteService struct {
	repo        repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	seqRepo     repository.SequenceRepository
	dispatcher  *worker.Dispatcher
}

func NewQuoteService(
	repo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.SequenceRepository,
	dispatcher *worker.Dispatcher,
) QuoteService {
	return &quoteService{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		seqRepo:     seqRepo,
		dispatcher:  dispatcher,
	}
}

func (s *quoteService) Create(ctx context.Context, ownerID uuid.UUID, req dto.QuoteCreateRequest) (*dto.QuoteResponse, error) {
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
	validityDate, err := parseDate(req.ValidityDate)
	if err != nil {
		return nil, validation("validity_date invalide")
	}
	if validityDate.Before(issueDate) {
		return nil, validation("la date de validité ne peut pas précéder la date d'émission")
	}

	lines, err := resolveLines(ctx, s.productRepo, ownerID, req.Items)
	if err != nil {
		return nil, err
	}

	var q model.Quote
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		year := time.Now().Year()
		seq, err := s.seqRepo.NextValueTx(tx, ownerID, model.DocumentKindQuote, year)
		if err != nil {
			return err
		}

		q = model.Quote{
			OwnerID:      ownerID,
			ClientID:     clientID,
			QuoteNumber:  fmt.Sprintf("DEV-%d-%05d", year, seq),
			Status:       model.QuoteStatusDraft,
			IssueDate:    issueDate,
			ValidityDate: validityDate,
			Notes:        req.Notes,
			Terms:        req.Terms,
		}
		for _, l := range lines {
			q.Items = append(q.Items, model.QuoteItem{
				ProductID:       l.productID,
				Description:     l.description,
				Quantity:        l.quantity,
				Unit:            l.unit,
				UnitPrice:       l.unitPrice,
				TaxRate:         l.taxRate,
				DiscountPercent: l.discountPercent,
			})
		}
		q.CalculateTotals()
		return s.repo.CreateTx(tx, &q)
	})
	if txErr != nil {
		return nil, txErr
	}

	q.Client = client
	resp := quoteToResponse(&q, time.Now())
	return &resp, nil
}

func (s *quoteService) Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

func (s *quoteService) List(ctx context.Context, ownerID uuid.UUID, filter dto.QuoteFilter) (*dto.QuoteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	quotes, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data := make([]dto.QuoteResponse, 0, len(quotes))
	for i := range quotes {
		data = append(data, quoteToResponse(&quotes[i], now))
	}
	return &dto.QuoteListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *quoteService) Update(ctx context.Context, id, ownerID uuid.UUID, req dto.QuoteUpdateRequest) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusDraft {
		return nil, invalidState("seul un devis en brouillon peut être modifié")
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
		q.ClientID = clientID
		q.Client = client
	}
	if req.IssueDate != nil {
		d, err := parseDate(*req.IssueDate)
		if err != nil {
			return nil, validation("issue_date invalide")
		}
		q.IssueDate = d
	}
	if req.ValidityDate != nil {
		d, err := parseDate(*req.ValidityDate)
		if err != nil {
			return nil, validation("validity_date invalide")
		}
		q.ValidityDate = d
	}
	if q.ValidityDate.Before(q.IssueDate) {
		return nil, validation("la date de validité ne peut pas précéder la date d'émission")
	}
	if req.Notes != nil {
		q.Notes = req.Notes
	}
	if req.Terms != nil {
		q.Terms = req.Terms
	}

	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

func (s *quoteService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusDraft {
		return invalidState("seul un devis en brouillon peut être supprimé")
	}
	return s.repo.Delete(ctx, q)
}

func (s *quoteService) AddItem(ctx context.Context, id, ownerID uuid.UUID, req dto.LineItemRequest) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusDraft {
		return nil, invalidState("les lignes ne peuvent être modifiées que sur un brouillon")
	}

	lines, err := resolveLines(ctx, s.productRepo, ownerID, []dto.LineItemRequest{req})
	if err != nil {
		return nil, err
	}
	l := lines[0]
	item := model.QuoteItem{
		QuoteID:         q.ID,
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
		q.Items = append(q.Items, item)
		q.CalculateTotals()
		return s.repo.SaveTx(tx, q)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

func (s *quoteService) RemoveItem(ctx context.Context, id, itemID, ownerID uuid.UUID) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusDraft {
		return nil, invalidState("les lignes ne peuvent être modifiées que sur un brouillon")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.RemoveItemTx(tx, q.ID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("ligne introuvable")
			}
			return err
		}
		kept := q.Items[:0]
		for _, it := range q.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		q.Items = kept
		q.CalculateTotals()
		return s.repo.SaveTx(tx, q)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

func (s *quoteService) Send(ctx context.Context, id, ownerID uuid.UUID, req dto.SendRequest) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusDraft {
		return nil, invalidTransition("seul un devis en brouillon peut être envoyé")
	}
	if len(q.Items) == 0 {
		return nil, invalidState("impossible d'envoyer un devis sans lignes")
	}

	now := time.Now()
	q.Status = model.QuoteStatusSent
	q.SentAt = &now
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.DocumentJobPayload{
			Kind:       worker.DocQuote,
			DocumentID: q.ID.String(),
			OwnerID:    q.OwnerID.String(),
			Message:    req.Message,
		}
		if q.Client != nil && q.Client.Email != nil && *q.Client.Email != "" {
			payload.ToEmail = q.Client.Email
		}
		_ = s.dispatcher.EnqueueDocument(ctx, payload)
	}

	resp := quoteToResponse(q, now)
	return &resp, nil
}

func (s *quoteService) Accept(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusSent {
		return nil, invalidTransition("seul un devis envoyé peut être accepté")
	}

	// Expiry is reporting-only; a client can still accept past the validity date.
	q.Status = model.QuoteStatusAccepted
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

func (s *quoteService) Reject(ctx context.Context, id, ownerID uuid.UUID) (*dto.QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}
	if q.Status != model.QuoteStatusSent {
		return nil, invalidTransition("seul un devis envoyé peut être refusé")
	}

	q.Status = model.QuoteStatusRejected
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, err
	}
	resp := quoteToResponse(q, time.Now())
	return &resp, nil
}

// Convert turns an accepted quote into a draft invoice. The quote's stored
// totals are copied verbatim and the items are deep-copied; everything
// happens in one transaction under a row lock so a quote can be converted at
// most once.
func (s *quoteService) Convert(ctx context.Context, id, ownerID uuid.UUID) (*dto.InvoiceResponse, error) {
	q, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("devis introuvable")
	}

	var inv model.Invoice
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		locked := q
		if tx != nil {
			locked, err = s.repo.FindForUpdateTx(tx, id, ownerID)
			if err != nil {
				return notFound("devis introuvable")
			}
		}
		if locked.ConvertedInvoiceID != nil {
			return alreadyConverted("le devis a déjà été converti en facture")
		}
		if locked.Status != model.QuoteStatusAccepted {
			return invalidState("seul un devis accepté peut être converti")
		}

		var items []model.QuoteItem
		if tx != nil {
			items, err = s.repo.FindItemsTx(tx, id)
			if err != nil {
				return err
			}
		} else {
			items = q.Items
		}

		now := time.Now()
		year := now.Year()
		seq, err := s.seqRepo.NextValueTx(tx, ownerID, model.DocumentKindInvoice, year)
		if err != nil {
			return err
		}

		inv = model.Invoice{
			OwnerID:       ownerID,
			ClientID:      locked.ClientID,
			InvoiceNumber: fmt.Sprintf("FACT-%d-%05d", year, seq),
			Status:        model.InvoiceStatusDraft,
			IssueDate:     now,
			// Due on the conversion day; the caller adjusts it on the draft.
			DueDate:       now,
			Notes:         locked.Notes,
			Terms:         locked.Terms,
			// Totals are carried over as stored on the quote, not recomputed.
			Subtotal: locked.Subtotal,
			TaxTotal: locked.TaxTotal,
			Total:    locked.Total,
		}
		for _, it := range items {
			inv.Items = append(inv.Items, model.InvoiceItem{
				ProductID:       it.ProductID,
				Description:     it.Description,
				Quantity:        it.Quantity,
				Unit:            it.Unit,
				UnitPrice:       it.UnitPrice,
				TaxRate:         it.TaxRate,
				DiscountPercent: it.DiscountPercent,
			})
		}
		if err := s.invoiceRepo.CreateTx(tx, &inv); err != nil {
			return err
		}

		locked.Status = model.QuoteStatusConverted
		locked.ConvertedInvoiceID = &inv.ID
		if err := s.repo.SaveTx(tx, locked); err != nil {
			return err
		}
		*q = *locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	inv.Client = q.Client
	resp := invoiceToResponse(&inv, time.Now())
	return &resp, nil
}

func quoteToResponse(q *model.Quote, now time.Time) dto.QuoteResponse {
	items := make([]dto.LineItemResponse, 0, len(q.Items))
	for i := range q.Items {
		items = append(items, quoteItemToResponse(&q.Items[i]))
	}
	resp := dto.QuoteResponse{
		ID:           q.ID.String(),
		QuoteNumber:  q.QuoteNumber,
		ClientID:     q.ClientID.String(),
		Status:       q.Status,
		IssueDate:    q.IssueDate.Format("2006-01-02"),
		ValidityDate: q.ValidityDate.Format("2006-01-02"),
		Notes:        q.Notes,
		Terms:        q.Terms,
		Subtotal:     q.Subtotal,
		TaxTotal:     q.TaxTotal,
		Total:        q.Total,
		IsExpired:    q.IsExpired(now),
		PDFPath:      q.PDFPath,
		Items:        items,
		CreatedAt:    q.CreatedAt.Format(time.RFC3339),
	}
	if q.Client != nil {
		resp.ClientName = q.Client.Name
	}
	if q.ConvertedInvoiceID != nil {
		cid := q.ConvertedInvoiceID.String()
		resp.ConvertedInvoiceID = &cid
	}
	if q.SentAt != nil {
		sentAt := q.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}

func quoteItemToResponse(it *model.QuoteItem) dto.LineItemResponse {
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
