package service

import (
	"context"
	"errors"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/google/uuid"
)

type CashService interface {
	Register(ctx context.Context, userID uuid.UUID, req dto.RegisterCashTransactionRequest) (*dto.CashTransactionResponse, error)
	ListCurrentShift(ctx context.Context) (*dto.CashTransactionListResponse, error)
}

type cashService struct {
	repo      repository.CashRepository
	shiftRepo repository.ShiftRepository
}

func NewCashService(repo repository.CashRepository, shiftRepo repository.ShiftRepository) CashService {
	return &cashService{repo: repo, shiftRepo: shiftRepo}
}

func (s *cashService) Register(ctx context.Context, userID uuid.UUID, req dto.RegisterCashTransactionRequest) (*dto.CashTransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	// Expenses never carry a payment method: they always come out of the
	// drawer as cash.
	if req.Kind == model.TxExpense && req.PaymentMethod != nil {
		return nil, errors.New("expenses do not take a payment method")
	}

	entry := &model.CashTransaction{
		Kind:          req.Kind,
		Description:   req.Description,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		UserID:        userID,
		OccurredAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return cashToResponse(entry), nil
}

func (s *cashService) ListCurrentShift(ctx context.Context) (*dto.CashTransactionListResponse, error) {
	window, err := s.shiftRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListShiftScoped(ctx, window.StartedAt)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashTransactionResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, *cashToResponse(&e))
	}
	return &dto.CashTransactionListResponse{Data: items}, nil
}

func cashToResponse(t *model.CashTransaction) *dto.CashTransactionResponse {
	resp := &dto.CashTransactionResponse{
		ID:            t.ID.String(),
		Kind:          t.Kind,
		Description:   t.Description,
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		OccurredAt:    t.OccurredAt.Format(time.RFC3339),
	}
	if t.ClientID != nil {
		id := t.ClientID.String()
		resp.ClientID = &id
	}
	return resp
}
