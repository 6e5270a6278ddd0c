package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ClientRepository ───────────────────────────────────────────────

type memClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: map[uuid.UUID]*model.Client{}}
}

func (r *memClientRepo) seed(c model.Client) uuid.UUID {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cc := c
	r.clients[c.ID] = &cc
	return c.ID
}

func (r *memClientRepo) DB() *gorm.DB { return nil }

func (r *memClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.Document != nil {
		for _, existing := range r.clients {
			if existing.Document != nil && *existing.Document == *c.Document {
				return errors.New("duplicate key value violates unique constraint")
			}
		}
	}
	c.ID = uuid.New()
	cc := *c
	r.clients[c.ID] = &cc
	return nil
}

func (r *memClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *memClientRepo) List(_ context.Context, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		if filter.Debtors && !c.Debt.IsPositive() {
			continue
		}
		if !filter.Inactive && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *memClientRepo) Update(_ context.Context, c *model.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cc := *c
	r.clients[c.ID] = &cc
	return nil
}

func (r *memClientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = false
	return nil
}

func (r *memClientRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = true
	return nil
}

func (r *memClientRepo) CreditDebtTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Debt = c.Debt.Add(amount)
	return nil
}

// DebitDebtTx mirrors the guarded UPDATE: the debit only lands when the
// balance covers it, otherwise zero rows are reported.
func (r *memClientRepo) DebitDebtTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) (int64, error) {
	c, ok := r.clients[id]
	if !ok {
		return 0, nil
	}
	if c.Debt.LessThan(amount) {
		return 0, nil
	}
	c.Debt = c.Debt.Sub(amount)
	return 1, nil
}

var _ repository.ClientRepository = (*memClientRepo)(nil)

// ── PayDebt ──────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func seedDebtor(repo *memClientRepo, debt string) uuid.UUID {
	return repo.seed(model.Client{
		Kind:     model.ClientIndividual,
		Name:     "Maria Oliveira",
		Document: strPtr("12345678901"),
		Debt:     dec(debt),
		Active:   true,
	})
}

func TestPayDebtPartial(t *testing.T) {
	repo := newMemClientRepo()
	cashRepo := &memCashRepo{}
	id := seedDebtor(repo, "100.00")
	svc := service.NewClientService(repo, cashRepo)

	resp, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("40.00"),
		PaymentMethod: model.PayPix,
	})
	require.NoError(t, err)

	assert.Equal(t, "60", resp.RemainingDebt.String())
	assert.Equal(t, "40", resp.AmountPaid.String())
	assert.Equal(t, "60", repo.clients[id].Debt.String())

	// Exactly one income entry lands in the cash ledger
	require.Len(t, cashRepo.txs, 1)
	entry := cashRepo.txs[0]
	assert.Equal(t, model.TxDebtPayment, entry.Kind)
	require.NotNil(t, entry.PaymentMethod)
	assert.Equal(t, model.PayPix, *entry.PaymentMethod)
	require.NotNil(t, entry.ClientID)
	assert.Equal(t, id, *entry.ClientID)
	assert.Equal(t, "40", entry.Amount.String())
}

func TestPayDebtFull(t *testing.T) {
	repo := newMemClientRepo()
	cashRepo := &memCashRepo{}
	id := seedDebtor(repo, "75.50")
	svc := service.NewClientService(repo, cashRepo)

	resp, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("75.50"),
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)
	assert.True(t, resp.RemainingDebt.IsZero())
	assert.True(t, repo.clients[id].Debt.IsZero())
}

func TestPayDebtOverpaymentRejected(t *testing.T) {
	repo := newMemClientRepo()
	cashRepo := &memCashRepo{}
	id := seedDebtor(repo, "100.00")
	svc := service.NewClientService(repo, cashRepo)

	_, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("150.00"),
		PaymentMethod: model.PayCash,
	})
	assert.ErrorIs(t, err, service.ErrDebtOverpayment)

	// Rejected payments leave no trace
	assert.Equal(t, "100", repo.clients[id].Debt.String())
	assert.Empty(t, cashRepo.txs)
}

func TestPayDebtNonPositiveAmountRejected(t *testing.T) {
	repo := newMemClientRepo()
	id := seedDebtor(repo, "50.00")
	svc := service.NewClientService(repo, &memCashRepo{})

	for _, amount := range []string{"0", "-10.00"} {
		_, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
			Amount:        dec(amount),
			PaymentMethod: model.PayCash,
		})
		assert.ErrorContains(t, err, "positive")
	}
}

func TestPayDebtZeroBalanceRejected(t *testing.T) {
	repo := newMemClientRepo()
	id := repo.seed(model.Client{Name: "Sem Divida", Active: true})
	svc := service.NewClientService(repo, &memCashRepo{})

	_, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("10.00"),
		PaymentMethod: model.PayCash,
	})
	assert.ErrorContains(t, err, "no outstanding debt")
}

func TestPayDebtUnknownClient(t *testing.T) {
	svc := service.NewClientService(newMemClientRepo(), &memCashRepo{})

	_, err := svc.PayDebt(context.Background(), uuid.New(), uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("10.00"),
		PaymentMethod: model.PayCash,
	})
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

// racingClientRepo makes every guarded debit lose: the balance moved
// between the service's read and its UPDATE.
type racingClientRepo struct {
	*memClientRepo
}

func (r *racingClientRepo) DebitDebtTx(_ *gorm.DB, _ uuid.UUID, _ decimal.Decimal) (int64, error) {
	return 0, nil
}

var _ repository.ClientRepository = (*racingClientRepo)(nil)

func TestPayDebtGuardedDebitRace(t *testing.T) {
	inner := newMemClientRepo()
	id := seedDebtor(inner, "100.00")
	cashRepo := &memCashRepo{}
	svc := service.NewClientService(&racingClientRepo{inner}, cashRepo)

	_, err := svc.PayDebt(context.Background(), id, uuid.New(), dto.DebtPaymentRequest{
		Amount:        dec("30.00"),
		PaymentMethod: model.PayCard,
	})
	assert.ErrorIs(t, err, service.ErrDebtOverpayment)
}

// ── Create / Delete ──────────────────────────────────────────────────────────

func TestCreateClientRequiresDocument(t *testing.T) {
	svc := service.NewClientService(newMemClientRepo(), &memCashRepo{})

	_, err := svc.Create(context.Background(), dto.CreateClientRequest{
		Kind: model.ClientOrganization,
		Name: "Escolinha Jardim",
	})
	assert.ErrorContains(t, err, "CNPJ")

	_, err = svc.Create(context.Background(), dto.CreateClientRequest{
		Kind: model.ClientIndividual,
		Name: "Joao Santos",
	})
	assert.ErrorContains(t, err, "CPF")
}

func TestCreateClientDuplicateDocument(t *testing.T) {
	repo := newMemClientRepo()
	svc := service.NewClientService(repo, &memCashRepo{})

	req := dto.CreateClientRequest{
		Kind: model.ClientIndividual,
		Name: "Ana Souza",
		CPF:  strPtr("98765432100"),
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorContains(t, err, "already exists")
}

func TestDeleteClientWithDebtBlocked(t *testing.T) {
	repo := newMemClientRepo()
	id := seedDebtor(repo, "20.00")
	svc := service.NewClientService(repo, &memCashRepo{})

	err := svc.Delete(context.Background(), id)
	assert.ErrorContains(t, err, "outstanding debt")
	assert.True(t, repo.clients[id].Active)
}

func TestDeleteClientWithoutDebt(t *testing.T) {
	repo := newMemClientRepo()
	id := repo.seed(model.Client{Name: "Quitado", Active: true})
	svc := service.NewClientService(repo, &memCashRepo{})

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.False(t, repo.clients[id].Active)
}
