package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash-ledger transaction kinds.
//   - expense: cash outflow from the drawer (always reduces expected cash)
//   - manual_entry: ad hoc income; with a payment method it counts toward
//     that method's total like a sale, without one it is a pure drawer
//     float adjustment
//   - debt_payment: a fiado settlement, recorded as income under its
//     payment method and mirrored by a debit on the client account
const (
	TxExpense     = "expense"
	TxManualEntry = "manual_entry"
	TxDebtPayment = "debt_payment"
)

// CashTransaction is an immutable entry in the cash ledger. Entries are
// never updated or deleted.
type CashTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind        string    `gorm:"type:varchar(20);not null;index"`
	Description string    `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PaymentMethod is nil for expenses and for drawer-float manual entries.
	PaymentMethod *string `gorm:"type:varchar(20)"`
	// ClientID links debt payments to the paying client.
	ClientID   *uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null"`
	OccurredAt time.Time  `gorm:"index;not null"`
	CreatedAt  time.Time
}
