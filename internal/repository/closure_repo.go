package repository

import (
	"context"

	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClosureRepository is append-only by design: DailyClosure rows are the
// audit trail of the cash conference and carry no Update or Delete.
type ClosureRepository interface {
	CreateTx(tx *gorm.DB, c *model.DailyClosure) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DailyClosure, error)
	List(ctx context.Context, page, limit int) ([]model.DailyClosure, int64, error)
}

type closureRepo struct{ db *gorm.DB }

func NewClosureRepository(db *gorm.DB) ClosureRepository { return &closureRepo{db: db} }

func (r *closureRepo) CreateTx(tx *gorm.DB, c *model.DailyClosure) error {
	return tx.Create(c).Error
}

func (r *closureRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DailyClosure, error) {
	var c model.DailyClosure
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *closureRepo) List(ctx context.Context, page, limit int) ([]model.DailyClosure, int64, error) {
	var closures []model.DailyClosure
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.DailyClosure{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("closed_at DESC").Offset(offset).Limit(limit).Find(&closures).Error
	return closures, total, err
}
