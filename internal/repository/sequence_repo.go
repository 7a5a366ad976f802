package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceRepository allocates document numbers. Allocation is a single
// UPSERT so two transactions racing on the same (owner, kind, year) key get
// distinct values; the row lock taken by the UPDATE branch serializes them.
type SequenceRepository interface {
	NextValueTx(tx *gorm.DB, ownerID uuid.UUID, kind string, year int) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) NextValueTx(tx *gorm.DB, ownerID uuid.UUID, kind string, year int) (int64, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO document_sequences (id, owner_id, kind, year, value, created_at, updated_at)
		VALUES (gen_random_uuid(), ?, ?, ?, 1, now(), now())
		ON CONFLICT (owner_id, kind, year)
		DO UPDATE SET value = document_sequences.value + 1, updated_at = now()
		RETURNING value`,
		ownerID, kind, year,
	).Scan(&value).Error
	return value, err
}
