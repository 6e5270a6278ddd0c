package repository

import (
	"context"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	// CreditDebtTx increases a client's debt (fiado sale) inside a transaction.
	CreditDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
	// DebitDebtTx decreases a client's debt, guarded so the balance can
	// never go negative. Returns the number of rows affected: zero means
	// the client does not exist or the debit would overdraw the account.
	DebitDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (int64, error)
	DB() *gorm.DB
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) DB() *gorm.DB { return r.db }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Client{})
	if !filter.Inactive {
		q = q.Where("active")
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR document = ?", "%"+filter.Search+"%", filter.Search)
	}
	if filter.Debtors {
		q = q.Where("debt > 0")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Update("active", false).Error
}

func (r *clientRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Update("active", true).Error
}

func (r *clientRepo) CreditDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.Client{}).Where("id = ?", id).
		Update("debt", gorm.Expr("debt + ?", amount)).Error
}

func (r *clientRepo) DebitDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Client{}).
		Where("id = ? AND debt >= ?", id, amount).
		Update("debt", gorm.Expr("debt - ?", amount))
	return res.RowsAffected, res.Error
}
