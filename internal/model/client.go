package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client kinds. Individuals carry a CPF, organizations a CNPJ; the
// discriminated validation lives in the DTO layer.
const (
	ClientIndividual   = "individual"
	ClientOrganization = "organization"
)

// Client is a nursery customer with an optional store-credit (fiado)
// account. Debt is never allowed below zero: every debit goes through a
// guarded UPDATE and the column carries a CHECK constraint as backstop.
type Client struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind     string    `gorm:"type:varchar(20);not null;default:'individual'"`
	Name     string    `gorm:"index;not null"`
	Document *string   `gorm:"uniqueIndex"` // CPF or CNPJ depending on Kind
	Phone    *string
	Email    *string
	Address  *string
	Notes    *string
	Debt     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active   bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
