package repository

import (
	"context"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"gorm.io/gorm"
)

type ShiftRepository interface {
	// Get returns the singleton shift window, seeding it to the start of
	// the current calendar day on first run.
	Get(ctx context.Context) (*model.ShiftWindow, error)
	// AdvanceTx moves started_at to now inside a transaction, guarded by
	// the version read earlier. Returns rows affected: zero means another
	// register advanced the window first.
	AdvanceTx(tx *gorm.DB, expectedVersion int64, now time.Time) (int64, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Get(ctx context.Context) (*model.ShiftWindow, error) {
	var w model.ShiftWindow
	err := r.db.WithContext(ctx).First(&w, model.ShiftWindowID).Error
	if err == gorm.ErrRecordNotFound {
		now := time.Now()
		w = model.ShiftWindow{
			ID:        model.ShiftWindowID,
			StartedAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			Version:   1,
		}
		if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	return &w, err
}

func (r *shiftRepo) AdvanceTx(tx *gorm.DB, expectedVersion int64, now time.Time) (int64, error) {
	res := tx.Model(&model.ShiftWindow{}).
		Where("id = ? AND version = ?", model.ShiftWindowID, expectedVersion).
		Updates(map[string]interface{}{
			"started_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}
