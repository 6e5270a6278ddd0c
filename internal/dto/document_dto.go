package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateContractRequest struct {
	ClientID string  `json:"client_id" validate:"required,uuid"`
	SaleID   *string `json:"sale_id"   validate:"omitempty,uuid"`
	Title    string  `json:"title"     validate:"required,min=3"`
	Body     string  `json:"body"      validate:"required,min=10"`
	EmailTo  *string `json:"email_to"  validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DocumentResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	ClientID    *string `json:"client_id,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	EmailTo     *string `json:"email_to,omitempty"`
	LastError   *string `json:"last_error,omitempty"`
	Attempts    int     `json:"attempts"`
	CreatedAt   string  `json:"created_at"`
}

type DocumentListResponse struct {
	Data  []DocumentResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
