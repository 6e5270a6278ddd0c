package tests

import (
	"context"
	"testing"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterExpense(t *testing.T) {
	cashRepo := &memCashRepo{}
	svc := service.NewCashService(cashRepo, newMemShiftRepo(time.Now()))

	resp, err := svc.Register(context.Background(), uuid.New(), dto.RegisterCashTransactionRequest{
		Kind:        model.TxExpense,
		Description: "Fertilizer restock at the garden center",
		Amount:      dec("85.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.TxExpense, resp.Kind)
	assert.Equal(t, "85", resp.Amount.String())
	assert.Nil(t, resp.PaymentMethod)
	require.Len(t, cashRepo.txs, 1)
}

func TestRegisterExpenseWithMethodRejected(t *testing.T) {
	cashRepo := &memCashRepo{}
	svc := service.NewCashService(cashRepo, newMemShiftRepo(time.Now()))

	pix := model.PayPix
	_, err := svc.Register(context.Background(), uuid.New(), dto.RegisterCashTransactionRequest{
		Kind:          model.TxExpense,
		Description:   "Pix expense attempt",
		Amount:        dec("10.00"),
		PaymentMethod: &pix,
	})
	assert.ErrorContains(t, err, "payment method")
	assert.Empty(t, cashRepo.txs)
}

func TestRegisterNonPositiveAmountRejected(t *testing.T) {
	svc := service.NewCashService(&memCashRepo{}, newMemShiftRepo(time.Now()))

	for _, amount := range []string{"0", "-5.00"} {
		_, err := svc.Register(context.Background(), uuid.New(), dto.RegisterCashTransactionRequest{
			Kind:        model.TxManualEntry,
			Description: "bad amount",
			Amount:      dec(amount),
		})
		assert.ErrorContains(t, err, "positive")
	}
}

func TestRegisterManualEntryWithMethod(t *testing.T) {
	cashRepo := &memCashRepo{}
	svc := service.NewCashService(cashRepo, newMemShiftRepo(time.Now()))

	card := model.PayCard
	resp, err := svc.Register(context.Background(), uuid.New(), dto.RegisterCashTransactionRequest{
		Kind:          model.TxManualEntry,
		Description:   "Workshop fee collected on the card machine",
		Amount:        dec("120.00"),
		PaymentMethod: &card,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, model.PayCard, *resp.PaymentMethod)
}

func TestListCurrentShiftScoping(t *testing.T) {
	shiftStart := time.Now().Add(-3 * time.Hour)
	cashRepo := &memCashRepo{}
	svc := service.NewCashService(cashRepo, newMemShiftRepo(shiftStart))

	// Inside the shift
	cashRepo.txs = append(cashRepo.txs,
		ledgerEntry(model.TxExpense, "10.00", nil, time.Now().Add(-1*time.Hour)),
		ledgerEntry(model.TxManualEntry, "20.00", nil, time.Now()),
	)
	// Before the shift started (previous, already closed shift)
	cashRepo.txs = append(cashRepo.txs,
		ledgerEntry(model.TxExpense, "99.00", nil, shiftStart.Add(-2*time.Hour)),
	)
	// Debt payments are day-scoped and never show in the shift ledger view
	clientID := uuid.New()
	cashRepo.txs = append(cashRepo.txs, model.CashTransaction{
		ID: uuid.New(), Kind: model.TxDebtPayment,
		Amount: dec("30.00"), OccurredAt: time.Now(), ClientID: &clientID,
	})

	resp, err := svc.ListCurrentShift(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
}
