package repository

import (
	"context"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository defines the data access contract for clients. Every query
// filters by owner id — a client belonging to another owner behaves exactly
// like a missing record.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Client, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.ClientFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&c).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Client{}).Where("owner_id = ?", ownerID)
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR email ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
