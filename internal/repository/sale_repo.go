package repository

import (
	"context"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	NextSaleNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// ListShiftScoped returns completed non-credit sales with
	// occurred_at >= since, the input set of the shift aggregation.
	ListShiftScoped(ctx context.Context, since time.Time) ([]model.Sale, error)
	// ListCreditSalesOn returns completed credit sales for one calendar
	// day. Credit follows the CreditDayScope policy: fiado settles against
	// the client account rather than the drawer, so it is day-scoped even
	// while everything else is shift-scoped.
	ListCreditSalesOn(ctx context.Context, day time.Time) ([]model.Sale, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) NextSaleNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps numbering atomic across registers
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('sales_number_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Method != "" {
		q = q.Where("payment_method = ?", filter.Method)
	}
	if filter.Date != "" {
		q = q.Where("DATE(occurred_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(occurred_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("occurred_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) ListShiftScoped(ctx context.Context, since time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("status = 'completed' AND payment_method <> ? AND occurred_at >= ?", model.PayCredit, since).
		Order("occurred_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListCreditSalesOn(ctx context.Context, day time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("status = 'completed' AND payment_method = ? AND DATE(occurred_at) = ?",
			model.PayCredit, day.Format("2006-01-02")).
		Order("occurred_at DESC").
		Find(&sales).Error
	return sales, err
}
