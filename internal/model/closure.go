package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyClosure is the immutable reconciliation snapshot written when a
// shift is closed. Rows are append-only: they form the audit trail behind
// the reports view and are never updated after creation.
//
// Variance = CountedCash - ExpectedCash; positive means overage, negative
// means shortage.
type DailyClosure struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClosedAt       time.Time `gorm:"index;not null"`
	ShiftStartedAt time.Time `gorm:"not null"`

	TotalCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPix  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCard decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TotalRevenue       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalManualEntries decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalExpenses      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ExpectedCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedCash  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Variance     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Notes     *string
	ClosedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}
