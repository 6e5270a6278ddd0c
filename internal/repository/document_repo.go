package repository

import (
	"context"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Update(ctx context.Context, d *model.Document) error
	List(ctx context.Context, kind string, page, limit int) ([]model.Document, int64, error)
	// ListStuckPending returns pending documents older than the cutoff,
	// i.e. rows whose enqueue was lost (Redis down at creation time).
	ListStuckPending(ctx context.Context, olderThan time.Time, limit int) ([]model.Document, error)
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) DocumentRepository { return &documentRepo{db: db} }

func (r *documentRepo) Create(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *documentRepo) Update(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *documentRepo) List(ctx context.Context, kind string, page, limit int) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Document{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

func (r *documentRepo) ListStuckPending(ctx context.Context, olderThan time.Time, limit int) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.DocPending, olderThan).
		Order("created_at ASC").Limit(limit).
		Find(&docs).Error
	return docs, err
}
