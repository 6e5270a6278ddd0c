package service

import (
	"context"
	"errors"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrClosureNotFound = errors.New("closure not found")

// ReportService serves the closure history and the day-scoped credit
// view. The closure records themselves are immutable; this is a read-only
// view over them.
type ReportService interface {
	ListClosures(ctx context.Context, page, limit int) (*dto.ClosureListResponse, error)
	GetClosure(ctx context.Context, id uuid.UUID) (*dto.ClosureResponse, error)
	// CreditSales returns the fiado movement of one business day: credit
	// sales charged and debt payments received.
	CreditSales(ctx context.Context, day time.Time) (*dto.CreditReportResponse, error)
}

type reportService struct {
	closureRepo repository.ClosureRepository
	saleRepo    repository.SaleRepository
	cashRepo    repository.CashRepository
}

func NewReportService(closureRepo repository.ClosureRepository, saleRepo repository.SaleRepository, cashRepo repository.CashRepository) ReportService {
	return &reportService{closureRepo: closureRepo, saleRepo: saleRepo, cashRepo: cashRepo}
}

func (s *reportService) ListClosures(ctx context.Context, page, limit int) (*dto.ClosureListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 30
	}
	closures, total, err := s.closureRepo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClosureResponse, 0, len(closures))
	for _, c := range closures {
		items = append(items, *closureToResponse(&c))
	}
	return &dto.ClosureListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *reportService) GetClosure(ctx context.Context, id uuid.UUID) (*dto.ClosureResponse, error) {
	closure, err := s.closureRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClosureNotFound
	}
	return closureToResponse(closure), nil
}

func (s *reportService) CreditSales(ctx context.Context, day time.Time) (*dto.CreditReportResponse, error) {
	sales, err := s.saleRepo.ListCreditSalesOn(ctx, day)
	if err != nil {
		return nil, err
	}
	payments, err := s.cashRepo.ListDebtPaymentsOn(ctx, day)
	if err != nil {
		return nil, err
	}

	resp := &dto.CreditReportResponse{
		Day:           day.Format("2006-01-02"),
		TotalCharged:  decimal.Zero,
		TotalReceived: decimal.Zero,
	}
	for _, v := range sales {
		resp.Sales = append(resp.Sales, *saleToResponse(&v))
		resp.TotalCharged = resp.TotalCharged.Add(v.Total)
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, *cashToResponse(&p))
		resp.TotalReceived = resp.TotalReceived.Add(p.Amount)
	}
	return resp, nil
}
