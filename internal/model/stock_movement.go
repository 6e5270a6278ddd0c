package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is an immutable event in the inventory ledger.
// Kind: "sale" | "restore_void" | "adjustment" | "restock"
// Movements are never modified or deleted — corrections create new entries.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"` // signed delta
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string    `gorm:"not null"`
	// ReferenceID links to the originating Sale or manual operation.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}
