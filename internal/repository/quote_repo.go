package repository

import (
	"context"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuoteRepository interface {
	CreateTx(tx *gorm.DB, q *model.Quote) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Quote, error)
	// FindForUpdateTx locks the quote row so conversion can be attempted at
	// most once even under concurrent requests.
	FindForUpdateTx(tx *gorm.DB, id, ownerID uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.QuoteFilter) ([]model.Quote, int64, error)
	Save(ctx context.Context, q *model.Quote) error
	SaveTx(tx *gorm.DB, q *model.Quote) error
	Delete(ctx context.Context, q *model.Quote) error
	AddItemTx(tx *gorm.DB, item *model.QuoteItem) error
	RemoveItemTx(tx *gorm.DB, quoteID, itemID uuid.UUID) error
	FindItemsTx(tx *gorm.DB, quoteID uuid.UUID) ([]model.QuoteItem, error)
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	DB() *gorm.DB
}

type quoteRepo struct{ db *gorm.DB }

func NewQuoteRepository(db *gorm.DB) QuoteRepository { return &quoteRepo{db: db} }

func (r *quoteRepo) DB() *gorm.DB { return r.db }

func (r *quoteRepo) CreateTx(tx *gorm.DB, q *model.Quote) error {
	return tx.Create(q).Error
}

func (r *quoteRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Quote, error) {
	var q model.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Client").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&q).Error
	return &q, err
}

func (r *quoteRepo) FindForUpdateTx(tx *gorm.DB, id, ownerID uuid.UUID) (*model.Quote, error) {
	var q model.Quote
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&q).Error
	return &q, err
}

func (r *quoteRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.QuoteFilter) ([]model.Quote, int64, error) {
	var quotes []model.Quote
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Quote{}).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Client").
		Order("issue_date DESC, quote_number DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&quotes).Error
	return quotes, total, err
}

func (r *quoteRepo) Save(ctx context.Context, q *model.Quote) error {
	return r.db.WithContext(ctx).Omit("Items", "Client").Save(q).Error
}

func (r *quoteRepo) SaveTx(tx *gorm.DB, q *model.Quote) error {
	return tx.Omit("Items", "Client").Save(q).Error
}

func (r *quoteRepo) Delete(ctx context.Context, q *model.Quote) error {
	return r.db.WithContext(ctx).Select("Items").Delete(q).Error
}

func (r *quoteRepo) AddItemTx(tx *gorm.DB, item *model.QuoteItem) error {
	return tx.Create(item).Error
}

func (r *quoteRepo) RemoveItemTx(tx *gorm.DB, quoteID, itemID uuid.UUID) error {
	res := tx.Where("id = ? AND quote_id = ?", itemID, quoteID).Delete(&model.QuoteItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quoteRepo) FindItemsTx(tx *gorm.DB, quoteID uuid.UUID) ([]model.QuoteItem, error) {
	var items []model.QuoteItem
	err := tx.Where("quote_id = ?", quoteID).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *quoteRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Quote{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}
