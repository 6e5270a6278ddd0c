package repository

import (
	"context"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"gorm.io/gorm"
)

type CashRepository interface {
	Create(ctx context.Context, t *model.CashTransaction) error
	CreateTx(tx *gorm.DB, t *model.CashTransaction) error
	// ListShiftScoped returns expenses and manual entries with
	// occurred_at >= since (debt payments are day-scoped, see ListDebtPaymentsOn).
	ListShiftScoped(ctx context.Context, since time.Time) ([]model.CashTransaction, error)
	// ListDebtPaymentsOn returns the fiado settlements for one calendar
	// day (CreditDayScope policy).
	ListDebtPaymentsOn(ctx context.Context, day time.Time) ([]model.CashTransaction, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) Create(ctx context.Context, t *model.CashTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *cashRepo) CreateTx(tx *gorm.DB, t *model.CashTransaction) error {
	return tx.Create(t).Error
}

func (r *cashRepo) ListShiftScoped(ctx context.Context, since time.Time) ([]model.CashTransaction, error) {
	var txs []model.CashTransaction
	err := r.db.WithContext(ctx).
		Where("kind IN ? AND occurred_at >= ?", []string{model.TxExpense, model.TxManualEntry}, since).
		Order("occurred_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *cashRepo) ListDebtPaymentsOn(ctx context.Context, day time.Time) ([]model.CashTransaction, error) {
	var txs []model.CashTransaction
	err := r.db.WithContext(ctx).
		Where("kind = ? AND DATE(occurred_at) = ?", model.TxDebtPayment, day.Format("2006-01-02")).
		Order("occurred_at DESC").
		Find(&txs).Error
	return txs, err
}
