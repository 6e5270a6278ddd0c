package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateClientRequest is a discriminated union on Kind: individuals must
// carry a CPF, organizations a CNPJ. The cross-field rules that validator
// tags cannot express live in Validate.
type CreateClientRequest struct {
	Kind     string  `json:"kind"     validate:"required,oneof=individual organization"`
	Name     string  `json:"name"     validate:"required,min=2"`
	CPF      *string `json:"cpf"      validate:"omitempty,len=11,numeric"`
	CNPJ     *string `json:"cnpj"     validate:"omitempty,len=14,numeric"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

// Document returns the identity document matching the declared kind, or
// an empty string when the subtype's required field is missing.
func (r *CreateClientRequest) Document() string {
	switch r.Kind {
	case "organization":
		if r.CNPJ != nil {
			return *r.CNPJ
		}
	default:
		if r.CPF != nil {
			return *r.CPF
		}
	}
	return ""
}

type UpdateClientRequest struct {
	Name    string  `json:"name"    validate:"omitempty,min=2"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type DebtPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash pix card"`
	Description   string          `json:"description"`
}

// ClientFilter is bound from the query string of GET /v1/clients.
type ClientFilter struct {
	Search   string `form:"search"`
	Debtors  bool   `form:"debtors"` // only clients with outstanding debt
	Inactive bool   `form:"inactive"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Document  *string         `json:"document,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Email     *string         `json:"email,omitempty"`
	Address   *string         `json:"address,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	Debt      decimal.Decimal `json:"debt"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type DebtPaymentResponse struct {
	ClientID      string          `json:"client_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
	TransactionID string          `json:"transaction_id"`
}
