package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout. "credit" is a fiado sale: the
// total is charged to the client account instead of the drawer, so credit
// sales never produce cash-ledger entries.
const (
	PayCash   = "cash"
	PayPix    = "pix"
	PayCard   = "card"
	PayCredit = "credit"
)

// Sale is an immutable checkout record. Item rows snapshot product name
// and unit price at the time of sale so later catalog edits never change
// historical totals. Status: "completed" | "voided".
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number        int       `gorm:"uniqueIndex;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;index"`
	// ClientID/ClientName are required for credit sales, optional otherwise.
	ClientID   *uuid.UUID `gorm:"type:uuid;index"`
	ClientName *string
	UserID     uuid.UUID `gorm:"type:uuid;not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'completed'"`
	OccurredAt time.Time `gorm:"index;not null"`
	CreatedAt  time.Time

	Items  []SaleItem `gorm:"foreignKey:SaleID"`
	Client *Client    `gorm:"foreignKey:ClientID"`
	User   *User      `gorm:"foreignKey:UserID"`
}

type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	// Name and UnitPrice are snapshots taken at checkout.
	Name      string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
