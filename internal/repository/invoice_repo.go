package repository

import (
	"context"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository persists invoices with their line items. The *Tx variants
// run against a caller-supplied transaction handle so the services can group
// numbering, writes and status changes atomically.
type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Invoice, error)
	// FindForUpdateTx loads the invoice row under a FOR UPDATE lock, without
	// associations. Used by the payment engine to serialize concurrent
	// payments against the same invoice.
	FindForUpdateTx(tx *gorm.DB, id, ownerID uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	Save(ctx context.Context, inv *model.Invoice) error
	SaveTx(tx *gorm.DB, inv *model.Invoice) error
	Delete(ctx context.Context, inv *model.Invoice) error
	AddItemTx(tx *gorm.DB, item *model.InvoiceItem) error
	RemoveItemTx(tx *gorm.DB, invoiceID, itemID uuid.UUID) error
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC") }).
		Preload("Client").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) FindForUpdateTx(tx *gorm.DB, id, ownerID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.FromDate != "" {
		q = q.Where("issue_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("issue_date <= ?", filter.ToDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Client").
		Order("issue_date DESC, invoice_number DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) Save(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Payments", "Client").Save(inv).Error
}

func (r *invoiceRepo) SaveTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Omit("Items", "Payments", "Client").Save(inv).Error
}

func (r *invoiceRepo) Delete(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Select("Items", "Payments").Delete(inv).Error
}

func (r *invoiceRepo) AddItemTx(tx *gorm.DB, item *model.InvoiceItem) error {
	return tx.Create(item).Error
}

func (r *invoiceRepo) RemoveItemTx(tx *gorm.DB, invoiceID, itemID uuid.UUID) error {
	res := tx.Where("id = ? AND invoice_id = ?", itemID, invoiceID).Delete(&model.InvoiceItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}
