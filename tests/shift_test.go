package tests

import (
	"context"
	"errors"
	"testing"
	"time"

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

// ── In-memory ShiftRepository ────────────────────────────────────────────────

type memShiftRepo struct {
	window model.ShiftWindow
}

func newMemShiftRepo(startedAt time.Time) *memShiftRepo {
	return &memShiftRepo{window: model.ShiftWindow{
		ID:        model.ShiftWindowID,
		StartedAt: startedAt,
		Version:   1,
	}}
}

func (r *memShiftRepo) Get(_ context.Context) (*model.ShiftWindow, error) {
	w := r.window
	return &w, nil
}

func (r *memShiftRepo) AdvanceTx(_ *gorm.DB, expectedVersion int64, now time.Time) (int64, error) {
	if r.window.Version != expectedVersion {
		return 0, nil
	}
	r.window.StartedAt = now
	r.window.Version++
	return 1, nil
}

var _ repository.ShiftRepository = (*memShiftRepo)(nil)

// ── In-memory SaleRepository ─────────────────────────────────────────────────

type memSaleRepo struct {
	sales      []model.Sale
	nextNumber int
}

func (r *memSaleRepo) DB() *gorm.DB { return nil }

func (r *memSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales = append(r.sales, *s)
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			s := r.sales[i]
			return &s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	for i := range r.sales {
		if r.sales[i].ID == id {
			r.sales[i].Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (r *memSaleRepo) NextSaleNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextNumber++
	return r.nextNumber, nil
}

func (r *memSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) ListShiftScoped(_ context.Context, since time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.Status == "completed" && s.PaymentMethod != model.PayCredit && !s.OccurredAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSaleRepo) ListCreditSalesOn(_ context.Context, day time.Time) ([]model.Sale, error) {
	var out []model.Sale
	y, m, d := day.Date()
	for _, s := range r.sales {
		sy, sm, sd := s.OccurredAt.Date()
		if s.Status == "completed" && s.PaymentMethod == model.PayCredit && sy == y && sm == m && sd == d {
			out = append(out, s)
		}
	}
	return out, nil
}

var _ repository.SaleRepository = (*memSaleRepo)(nil)

// ── In-memory CashRepository ─────────────────────────────────────────────────

type memCashRepo struct {
	txs []model.CashTransaction
}

func (r *memCashRepo) Create(_ context.Context, t *model.CashTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txs = append(r.txs, *t)
	return nil
}

func (r *memCashRepo) CreateTx(_ *gorm.DB, t *model.CashTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txs = append(r.txs, *t)
	return nil
}

func (r *memCashRepo) ListShiftScoped(_ context.Context, since time.Time) ([]model.CashTransaction, error) {
	var out []model.CashTransaction
	for _, t := range r.txs {
		if (t.Kind == model.TxExpense || t.Kind == model.TxManualEntry) && !t.OccurredAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memCashRepo) ListDebtPaymentsOn(_ context.Context, day time.Time) ([]model.CashTransaction, error) {
	var out []model.CashTransaction
	y, m, d := day.Date()
	for _, t := range r.txs {
		ty, tm, td := t.OccurredAt.Date()
		if t.Kind == model.TxDebtPayment && ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ repository.CashRepository = (*memCashRepo)(nil)

// ── In-memory ClosureRepository ──────────────────────────────────────────────

type memClosureRepo struct {
	closures []model.DailyClosure
}

func (r *memClosureRepo) CreateTx(_ *gorm.DB, c *model.DailyClosure) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.closures = append(r.closures, *c)
	return nil
}

func (r *memClosureRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DailyClosure, error) {
	for i := range r.closures {
		if r.closures[i].ID == id {
			c := r.closures[i]
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memClosureRepo) List(_ context.Context, page, limit int) ([]model.DailyClosure, int64, error) {
	return r.closures, int64(len(r.closures)), nil
}

var _ repository.ClosureRepository = (*memClosureRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cashSale(method string, amount string, at time.Time) model.Sale {
	return model.Sale{
		ID:            uuid.New(),
		Total:         dec(amount),
		PaymentMethod: method,
		Status:        "completed",
		OccurredAt:    at,
	}
}

func ledgerEntry(kind, amount string, method *string, at time.Time) model.CashTransaction {
	return model.CashTransaction{
		ID:            uuid.New(),
		Kind:          kind,
		Amount:        dec(amount),
		PaymentMethod: method,
		OccurredAt:    at,
	}
}

// ── AggregateShift ───────────────────────────────────────────────────────────

func TestAggregateShiftMixedMethods(t *testing.T) {
	now := time.Now()
	sales := []model.Sale{
		cashSale(model.PayCash, "50.00", now),
		cashSale(model.PayPix, "20.00", now),
	}
	ledger := []model.CashTransaction{
		ledgerEntry(model.TxManualEntry, "10.00", nil, now), // drawer float, no method
		ledgerEntry(model.TxExpense, "5.00", nil, now),
	}

	totals := service.AggregateShift(sales, ledger)

	assert.Equal(t, "50", totals.ByMethod[model.PayCash].String())
	assert.Equal(t, "20", totals.ByMethod[model.PayPix].String())
	assert.Equal(t, "70", totals.TotalRevenue.String())
	assert.Equal(t, "10", totals.TotalManualEntries.String())
	assert.Equal(t, "5", totals.TotalExpenses.String())
	// expected cash = cash sales + drawer-float entries - expenses
	assert.Equal(t, "55", totals.ExpectedCash.String())
}

func TestAggregateShiftRevenueIsSumOfMethods(t *testing.T) {
	now := time.Now()
	sales := []model.Sale{
		cashSale(model.PayCash, "12.30", now),
		cashSale(model.PayPix, "45.00", now),
		cashSale(model.PayCard, "8.20", now),
		cashSale(model.PayCard, "1.80", now),
	}

	totals := service.AggregateShift(sales, nil)

	sum := decimal.Zero
	for _, v := range totals.ByMethod {
		sum = sum.Add(v)
	}
	assert.Equal(t, sum.String(), totals.TotalRevenue.String())
	assert.Equal(t, "10", totals.ByMethod[model.PayCard].String())
}

func TestAggregateShiftExpensesReduceExpectedCash(t *testing.T) {
	now := time.Now()
	sales := []model.Sale{cashSale(model.PayCash, "100.00", now)}
	ledger := []model.CashTransaction{
		ledgerEntry(model.TxExpense, "30.00", nil, now),
		ledgerEntry(model.TxExpense, "12.50", nil, now),
	}

	totals := service.AggregateShift(sales, ledger)

	assert.Equal(t, "42.5", totals.TotalExpenses.String())
	assert.Equal(t, "57.5", totals.ExpectedCash.String())
	// expenses never count as revenue
	assert.Equal(t, "100", totals.TotalRevenue.String())
}

func TestAggregateShiftManualEntryWithMethodCountsAsRevenue(t *testing.T) {
	now := time.Now()
	pix := model.PayPix
	ledger := []model.CashTransaction{
		ledgerEntry(model.TxManualEntry, "25.00", &pix, now),
	}

	totals := service.AggregateShift(nil, ledger)

	assert.Equal(t, "25", totals.ByMethod[model.PayPix].String())
	assert.Equal(t, "25", totals.TotalRevenue.String())
	assert.True(t, totals.TotalManualEntries.IsZero())
	// pix income never touches the drawer
	assert.True(t, totals.ExpectedCash.IsZero())
}

func TestAggregateShiftEmptyInputs(t *testing.T) {
	totals := service.AggregateShift(nil, nil)

	assert.True(t, totals.TotalRevenue.IsZero())
	assert.True(t, totals.TotalExpenses.IsZero())
	assert.True(t, totals.TotalManualEntries.IsZero())
	assert.True(t, totals.ExpectedCash.IsZero())
}

func TestAggregateShiftOrderInvariant(t *testing.T) {
	now := time.Now()
	sales := []model.Sale{
		cashSale(model.PayCash, "10.00", now),
		cashSale(model.PayCash, "3.33", now),
		cashSale(model.PayPix, "7.77", now),
	}
	ledger := []model.CashTransaction{
		ledgerEntry(model.TxExpense, "2.22", nil, now),
		ledgerEntry(model.TxManualEntry, "1.11", nil, now),
	}

	a := service.AggregateShift(sales, ledger)

	// Reverse both inputs
	revSales := []model.Sale{sales[2], sales[1], sales[0]}
	revLedger := []model.CashTransaction{ledger[1], ledger[0]}
	b := service.AggregateShift(revSales, revLedger)

	assert.Equal(t, a.ExpectedCash.String(), b.ExpectedCash.String())
	assert.Equal(t, a.TotalRevenue.String(), b.TotalRevenue.String())
	assert.Equal(t, a.TotalExpenses.String(), b.TotalExpenses.String())
}

// ── Close ─────────────────────────────────────────────────────────────────────

func newShiftService(shiftRepo *memShiftRepo, saleRepo *memSaleRepo, cashRepo *memCashRepo, closureRepo *memClosureRepo) service.ShiftService {
	return service.NewShiftService(shiftRepo, saleRepo, cashRepo, closureRepo, nil, nil)
}

func TestCloseShiftComputesVariance(t *testing.T) {
	shiftStart := time.Now().Add(-8 * time.Hour)
	shiftRepo := newMemShiftRepo(shiftStart)
	saleRepo := &memSaleRepo{}
	cashRepo := &memCashRepo{}
	closureRepo := &memClosureRepo{}

	saleRepo.sales = append(saleRepo.sales, cashSale(model.PayCash, "200.00", time.Now()))
	cashRepo.txs = append(cashRepo.txs, ledgerEntry(model.TxExpense, "50.00", nil, time.Now()))

	svc := newShiftService(shiftRepo, saleRepo, cashRepo, closureRepo)

	resp, err := svc.Close(context.Background(), uuid.New(), dto.CloseShiftRequest{
		CountedCash: dec("140.00"),
	})
	require.NoError(t, err)

	// expected 150, counted 140 → variance -10 (shortage)
	assert.Equal(t, "150", resp.ExpectedCash.String())
	assert.Equal(t, "140", resp.CountedCash.String())
	assert.Equal(t, "-10", resp.Variance.String())

	require.Len(t, closureRepo.closures, 1)
	// closing advanced the window to now
	assert.True(t, shiftRepo.window.StartedAt.After(shiftStart))
	assert.Equal(t, int64(2), shiftRepo.window.Version)
}

func TestCloseShiftSurplusVariance(t *testing.T) {
	shiftRepo := newMemShiftRepo(time.Now().Add(-4 * time.Hour))
	saleRepo := &memSaleRepo{}
	cashRepo := &memCashRepo{}
	closureRepo := &memClosureRepo{}
	saleRepo.sales = append(saleRepo.sales, cashSale(model.PayCash, "100.00", time.Now()))

	svc := newShiftService(shiftRepo, saleRepo, cashRepo, closureRepo)

	resp, err := svc.Close(context.Background(), uuid.New(), dto.CloseShiftRequest{
		CountedCash: dec("103.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "3.5", resp.Variance.String())
}

func TestCloseShiftRejectsZeroCountedCash(t *testing.T) {
	shiftRepo := newMemShiftRepo(time.Now().Add(-1 * time.Hour))
	svc := newShiftService(shiftRepo, &memSaleRepo{}, &memCashRepo{}, &memClosureRepo{})

	_, err := svc.Close(context.Background(), uuid.New(), dto.CloseShiftRequest{
		CountedCash: decimal.Zero,
	})
	assert.ErrorContains(t, err, "counted cash")
}

func TestCloseShiftConflictOnStaleVersion(t *testing.T) {
	shiftRepo := newMemShiftRepo(time.Now().Add(-6 * time.Hour))

	// racingShiftRepo bumps the stored version between the service's
	// snapshot and its guarded advance, like a second register winning.
	svc := service.NewShiftService(&racingShiftRepo{inner: shiftRepo}, &memSaleRepo{}, &memCashRepo{}, &memClosureRepo{}, nil, nil)

	_, err := svc.Close(context.Background(), uuid.New(), dto.CloseShiftRequest{
		CountedCash: dec("10.00"),
	})
	assert.ErrorIs(t, err, service.ErrShiftConflict)
}

// racingShiftRepo simulates a concurrent closing: every AdvanceTx sees a
// version that moved after Get returned.
type racingShiftRepo struct {
	inner *memShiftRepo
}

func (r *racingShiftRepo) Get(ctx context.Context) (*model.ShiftWindow, error) {
	return r.inner.Get(ctx)
}

func (r *racingShiftRepo) AdvanceTx(tx *gorm.DB, expectedVersion int64, now time.Time) (int64, error) {
	r.inner.window.Version++ // the other register won
	return r.inner.AdvanceTx(tx, expectedVersion, now)
}

var _ repository.ShiftRepository = (*racingShiftRepo)(nil)

// ── Report ───────────────────────────────────────────────────────────────────

func TestReportSeparatesDayScopedCredit(t *testing.T) {
	shiftStart := time.Now().Add(-2 * time.Hour)
	shiftRepo := newMemShiftRepo(shiftStart)
	saleRepo := &memSaleRepo{}
	cashRepo := &memCashRepo{}

	// Credit sale from this morning, before the current shift started
	morning := time.Now().Add(-5 * time.Hour)
	clientID := uuid.New()
	credit := cashSale(model.PayCredit, "75.00", morning)
	credit.ClientID = &clientID
	saleRepo.sales = append(saleRepo.sales,
		credit,
		cashSale(model.PayCash, "40.00", time.Now()),
	)
	cashRepo.txs = append(cashRepo.txs, model.CashTransaction{
		ID: uuid.New(), Kind: model.TxDebtPayment,
		Amount: dec("25.00"), OccurredAt: morning, ClientID: &clientID,
	})

	svc := newShiftService(shiftRepo, saleRepo, cashRepo, &memClosureRepo{})

	resp, err := svc.Report(context.Background())
	require.NoError(t, err)

	// Drawer figures are shift-scoped: only the cash sale counts
	assert.Equal(t, "40", resp.Totals.Cash.String())
	assert.Equal(t, "40", resp.ExpectedCash.String())
	assert.Equal(t, 1, resp.SaleCount)
	// Credit figures are day-scoped: the morning fiado still shows
	assert.Equal(t, "75", resp.CreditSalesToday.String())
	assert.Equal(t, "25", resp.DebtPaymentsToday.String())
}
