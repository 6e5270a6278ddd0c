package model

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds and generation states.
const (
	DocContract      = "contract"
	DocReceipt       = "receipt"
	DocClosureReport = "closure_report"

	DocPending   = "pending"
	DocGenerated = "generated"
	DocFailed    = "failed"
)

// Document tracks a printable artifact built asynchronously on the worker
// pool: purchase contracts for clients, sale receipts, and closure
// reports. The PDF itself lives on disk at PDFPath; the row carries the
// generation state and retry bookkeeping.
type Document struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind string    `gorm:"type:varchar(20);not null;index"`
	// ReferenceID points at the Sale or DailyClosure the document renders;
	// contract documents reference the client directly via ClientID.
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"not null"`
	// Body holds the contract clauses entered at creation time (contracts only).
	Body      *string
	Status    string  `gorm:"type:varchar(20);not null;default:'pending'"`
	PDFPath   *string
	EmailTo   *string
	LastError *string
	Attempts  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
