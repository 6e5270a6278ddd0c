package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegisterCashTransactionRequest covers expenses and manual entries.
// Debt payments go through POST /v1/clients/:id/debt-payments instead.
// PaymentMethod is only meaningful for manual entries: with one the entry
// counts toward that method's sales totals, without one it is a drawer
// float adjustment.
type RegisterCashTransactionRequest struct {
	Kind          string          `json:"kind"           validate:"required,oneof=expense manual_entry"`
	Description   string          `json:"description"    validate:"required,min=3"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	PaymentMethod *string         `json:"payment_method" validate:"omitempty,oneof=cash pix card"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashTransactionResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	ClientID      *string         `json:"client_id,omitempty"`
	OccurredAt    string          `json:"occurred_at"`
}

type CashTransactionListResponse struct {
	Data []CashTransactionResponse `json:"data"`
}
