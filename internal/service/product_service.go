package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	StockMovements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
	// PriceCheck is the public barcode lookup used by the price-check
	// totem. Answers are cached in Redis for a short TTL.
	PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	stockRepo repository.StockMovementRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
}

func NewProductService(repo repository.ProductRepository, stockRepo repository.StockMovementRepository, rdb *redis.Client, cacheTTLSeconds int) ProductService {
	return &productService{
		repo:      repo,
		stockRepo: stockRepo,
		rdb:       rdb,
		cacheTTL:  time.Duration(cacheTTLSeconds) * time.Second,
	}
}

func priceCacheKey(barcode string) string { return "price:" + barcode }

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.SalePrice.LessThan(req.CostPrice) {
		return nil, errors.New("sale price cannot be below cost price")
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	p := &model.Product{
		Barcode:     req.Barcode,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        unit,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, errors.New("a product with that barcode already exists")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *productToResponse(&p))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	oldBarcode := p.Barcode

	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Name != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		if !req.SalePrice.IsPositive() {
			return nil, errors.New("sale price must be positive")
		}
		p.SalePrice = *req.SalePrice
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Unit != "" {
		p.Unit = req.Unit
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Stale cached prices are worse than a cache miss
	s.invalidatePrice(ctx, oldBarcode)
	if p.Barcode != nil && (oldBarcode == nil || *p.Barcode != *oldBarcode) {
		s.invalidatePrice(ctx, p.Barcode)
	}

	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePrice(ctx, p.Barcode)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Reactivate(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.Delta < 0 && p.Stock+req.Delta < 0 {
		return nil, fmt.Errorf("adjustment would leave negative stock: %d available", p.Stock)
	}

	kind := "adjustment"
	if req.Delta > 0 {
		kind = "restock"
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		return s.stockRepo.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Kind:        kind,
			Quantity:    req.Delta,
			StockBefore: p.Stock,
			StockAfter:  p.Stock + req.Delta,
			Reason:      req.Reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	p.Stock += req.Delta
	return productToResponse(p), nil
}

func (s *productService) StockMovements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	movs, err := s.stockRepo.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			item.ReferenceID = &ref
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *productService) PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey(barcode)).Result(); err == nil {
			var resp dto.PriceCheckResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil || !p.Active {
		return nil, ErrProductNotFound
	}

	resp := &dto.PriceCheckResponse{
		Barcode:   barcode,
		Name:      p.Name,
		SalePrice: p.SalePrice,
		Unit:      p.Unit,
		InStock:   p.Stock > 0,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, priceCacheKey(barcode), payload, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("caching price lookup")
			}
		}
	}
	return resp, nil
}

func (s *productService) invalidatePrice(ctx context.Context, barcode *string) {
	if s.rdb == nil || barcode == nil || *barcode == "" {
		return
	}
	if err := s.rdb.Del(ctx, priceCacheKey(*barcode)).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", *barcode).Msg("invalidating price cache")
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
