package repository

import (
	"context"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository reads and writes payment rows. Payments carry no owner id
// of their own; scoping goes through the parent invoice.
type PaymentRepository interface {
	CreateTx(tx *gorm.DB, p *model.Payment) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.PaymentFilter) ([]model.Payment, int64, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) DB() *gorm.DB { return r.db }

func (r *paymentRepo) CreateTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *paymentRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("payments.id = ? AND invoices.owner_id = ?", id, ownerID).
		First(&p).Error
	return &p, err
}

func (r *paymentRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.PaymentFilter) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Payment{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.owner_id = ?", ownerID)
	if filter.Method != "" {
		q = q.Where("payments.payment_method = ?", filter.Method)
	}
	if filter.FromDate != "" {
		q = q.Where("payments.payment_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("payments.payment_date <= ?", filter.ToDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("payments.payment_date DESC, payments.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.Payment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
