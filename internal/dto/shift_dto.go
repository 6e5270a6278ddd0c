package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CloseShiftRequest struct {
	// CountedCash is the physically counted drawer amount. The counter
	// must enter a positive figure before confirming; zero means the
	// count was never performed, so it is rejected up front.
	CountedCash decimal.Decimal `json:"counted_cash" validate:"required"`
	Notes       *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MethodTotals breaks revenue down by payment method. Credit sales are
// excluded: fiado charges the client account, not the drawer.
type MethodTotals struct {
	Cash decimal.Decimal `json:"cash"`
	Pix  decimal.Decimal `json:"pix"`
	Card decimal.Decimal `json:"card"`
}

// ShiftReportResponse is the live reconciliation view of the open shift.
type ShiftReportResponse struct {
	ShiftStartedAt     string          `json:"shift_started_at"`
	Totals             MethodTotals    `json:"totals_by_method"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalManualEntries decimal.Decimal `json:"total_manual_entries"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	ExpectedCash       decimal.Decimal `json:"expected_cash"`
	SaleCount          int             `json:"sale_count"`
	// Day-scoped figures: credit stays on the business day, not the shift.
	CreditSalesToday  decimal.Decimal `json:"credit_sales_today"`
	DebtPaymentsToday decimal.Decimal `json:"debt_payments_today"`
}

// ClosureResponse renders one immutable DailyClosure record.
type ClosureResponse struct {
	ID                 string          `json:"id"`
	ClosedAt           string          `json:"closed_at"`
	ShiftStartedAt     string          `json:"shift_started_at"`
	Totals             MethodTotals    `json:"totals_by_method"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalManualEntries decimal.Decimal `json:"total_manual_entries"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	ExpectedCash       decimal.Decimal `json:"expected_cash"`
	CountedCash        decimal.Decimal `json:"counted_cash"`
	Variance           decimal.Decimal `json:"variance"`
	Notes              *string         `json:"notes,omitempty"`
	ClosedBy           string          `json:"closed_by"`
}

type ClosureListResponse struct {
	Data  []ClosureResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CreditReportResponse is the fiado movement of one business day: credit
// stays day-scoped regardless of the shift window.
type CreditReportResponse struct {
	Day           string                    `json:"day"` // YYYY-MM-DD
	Sales         []SaleResponse            `json:"sales"`
	Payments      []CashTransactionResponse `json:"payments"`
	TotalCharged  decimal.Decimal           `json:"total_charged"`
	TotalReceived decimal.Decimal           `json:"total_received"`
}
