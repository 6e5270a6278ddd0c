package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDebtOverpayment = errors.New("payment exceeds the outstanding debt")
)

type ClientService interface {
	Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, filter dto.ClientFilter) (*dto.ClientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	// PayDebt settles part or all of a client's fiado balance. The debit
	// on the account and the income entry in the cash ledger commit in a
	// single transaction, and the payment is rejected outright when it
	// exceeds the outstanding balance.
	PayDebt(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.DebtPaymentRequest) (*dto.DebtPaymentResponse, error)
}

type clientService struct {
	repo     repository.ClientRepository
	cashRepo repository.CashRepository
}

func NewClientService(repo repository.ClientRepository, cashRepo repository.CashRepository) ClientService {
	return &clientService{repo: repo, cashRepo: cashRepo}
}

func (s *clientService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	doc := req.Document()
	switch req.Kind {
	case model.ClientOrganization:
		if doc == "" {
			return nil, errors.New("organizations require a CNPJ")
		}
	case model.ClientIndividual:
		if doc == "" {
			return nil, errors.New("individuals require a CPF")
		}
	}

	client := &model.Client{
		Kind:    req.Kind,
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
		Active:  true,
	}
	if doc != "" {
		client.Document = &doc
	}

	if err := s.repo.Create(ctx, client); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, fmt.Errorf("a client with document %s already exists", doc)
		}
		return nil, err
	}
	return clientToResponse(client), nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	return clientToResponse(client), nil
}

func (s *clientService) List(ctx context.Context, filter dto.ClientFilter) (*dto.ClientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		items = append(items, *clientToResponse(&c))
	}
	return &dto.ClientListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClientNotFound
	}

	if req.Name != "" {
		client.Name = strings.TrimSpace(req.Name)
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrClientNotFound
	}
	// A client with an open balance cannot be deactivated: the debt would
	// become unrecoverable.
	if client.Debt.IsPositive() {
		return fmt.Errorf("client has an outstanding debt of %s and cannot be deactivated", client.Debt.StringFixed(2))
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *clientService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrClientNotFound
	}
	return s.repo.Reactivate(ctx, id)
}

func (s *clientService) PayDebt(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.DebtPaymentRequest) (*dto.DebtPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("payment amount must be positive")
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	if client.Debt.IsZero() {
		return nil, errors.New("client has no outstanding debt")
	}
	if req.Amount.GreaterThan(client.Debt) {
		return nil, ErrDebtOverpayment
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Debt payment — %s", client.Name)
	}

	now := time.Now()
	cid := client.ID
	entry := &model.CashTransaction{
		Kind:          model.TxDebtPayment,
		Description:   description,
		Amount:        req.Amount,
		PaymentMethod: &req.PaymentMethod,
		ClientID:      &cid,
		UserID:        userID,
		OccurredAt:    now,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The guarded UPDATE races correctly against concurrent payments:
		// zero rows means the balance moved under us and the debit would
		// overdraw the account.
		rows, err := s.repo.DebitDebtTx(tx, id, req.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrDebtOverpayment
		}
		return s.cashRepo.CreateTx(tx, entry)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DebtPaymentResponse{
		ClientID:      client.ID.String(),
		AmountPaid:    req.Amount,
		PaymentMethod: req.PaymentMethod,
		RemainingDebt: client.Debt.Sub(req.Amount),
		TransactionID: entry.ID.String(),
	}, nil
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID.String(),
		Kind:      c.Kind,
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		Debt:      c.Debt,
		Active:    c.Active,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
