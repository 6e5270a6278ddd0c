package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode     *string         `json:"barcode"     validate:"omitempty,min=4"`
	Name        string          `json:"name"        validate:"required,min=2"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"  validate:"min=0"`
	SalePrice   decimal.Decimal `json:"sale_price"  validate:"required,gt=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	MinStock    int             `json:"min_stock"   validate:"min=0"`
	Unit        string          `json:"unit"`
}

type UpdateProductRequest struct {
	Barcode     *string          `json:"barcode"     validate:"omitempty,min=4"`
	Name        string           `json:"name"        validate:"omitempty,min=2"`
	Description *string          `json:"description"`
	Category    string           `json:"category"`
	CostPrice   *decimal.Decimal `json:"cost_price"  validate:"omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price"  validate:"omitempty"`
	MinStock    *int             `json:"min_stock"   validate:"omitempty,min=0"`
	Unit        string           `json:"unit"`
}

// AdjustStockRequest applies a signed delta to a product's stock and
// records the movement.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Inactive bool   `form:"inactive"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Barcode     *string         `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Unit        string          `json:"unit"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is the public barcode price lookup payload; it is the
// shape cached in Redis.
type PriceCheckResponse struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Unit      string          `json:"unit"`
	InStock   bool            `json:"in_stock"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
