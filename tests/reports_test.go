package tests

import (
	"context"
	"testing"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditSalesReport(t *testing.T) {
	saleRepo := &memSaleRepo{}
	cashRepo := &memCashRepo{}
	clientID := uuid.New()

	today := time.Now()
	yesterday := today.Add(-24 * time.Hour)

	credit := cashSale(model.PayCredit, "80.00", today)
	credit.ClientID = &clientID
	oldCredit := cashSale(model.PayCredit, "999.00", yesterday)
	oldCredit.ClientID = &clientID
	saleRepo.sales = append(saleRepo.sales,
		credit,
		oldCredit,
		cashSale(model.PayCash, "50.00", today), // drawer sale, not fiado
	)
	cashRepo.txs = append(cashRepo.txs,
		model.CashTransaction{
			ID: uuid.New(), Kind: model.TxDebtPayment,
			Amount: dec("35.00"), OccurredAt: today, ClientID: &clientID,
		},
		model.CashTransaction{
			ID: uuid.New(), Kind: model.TxDebtPayment,
			Amount: dec("10.00"), OccurredAt: yesterday, ClientID: &clientID,
		},
	)

	svc := service.NewReportService(&memClosureRepo{}, saleRepo, cashRepo)

	resp, err := svc.CreditSales(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, resp.Sales, 1)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "80", resp.TotalCharged.String())
	assert.Equal(t, "35", resp.TotalReceived.String())
}

func TestListClosuresEmptyHistory(t *testing.T) {
	svc := service.NewReportService(&memClosureRepo{}, &memSaleRepo{}, &memCashRepo{})

	resp, err := svc.ListClosures(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.Total)
}

func TestGetClosureUnknownID(t *testing.T) {
	svc := service.NewReportService(&memClosureRepo{}, &memSaleRepo{}, &memCashRepo{})

	_, err := svc.GetClosure(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrClosureNotFound)
}
