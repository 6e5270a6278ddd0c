package service

import (
	"context"
	"errors"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrShiftConflict is returned when a closing loses the optimistic
// concurrency race: another register confirmed its closing between this
// register's conference snapshot and its confirm.
var ErrShiftConflict = errors.New("shift was already closed on another register")

type ShiftService interface {
	// Report computes the live reconciliation view of the open shift.
	Report(ctx context.Context) (*dto.ShiftReportResponse, error)
	// Close confirms the cash conference: persists the closure record and
	// advances the shift window in one transaction.
	Close(ctx context.Context, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ClosureResponse, error)
}

type shiftService struct {
	shiftRepo   repository.ShiftRepository
	saleRepo    repository.SaleRepository
	cashRepo    repository.CashRepository
	closureRepo repository.ClosureRepository
	docRepo     repository.DocumentRepository
	dispatcher  *worker.Dispatcher
}

func NewShiftService(
	shiftRepo repository.ShiftRepository,
	saleRepo repository.SaleRepository,
	cashRepo repository.CashRepository,
	closureRepo repository.ClosureRepository,
	docRepo repository.DocumentRepository,
	dispatcher *worker.Dispatcher,
) ShiftService {
	return &shiftService{
		shiftRepo:   shiftRepo,
		saleRepo:    saleRepo,
		cashRepo:    cashRepo,
		closureRepo: closureRepo,
		docRepo:     docRepo,
		dispatcher:  dispatcher,
	}
}

// ── Aggregation ───────────────────────────────────────────────────────────────

// ShiftTotals is the output of the shift aggregation: per-method revenue,
// the drawer-float bucket, expenses, and the derived expected cash.
type ShiftTotals struct {
	ByMethod           map[string]decimal.Decimal
	TotalRevenue       decimal.Decimal
	TotalManualEntries decimal.Decimal
	TotalExpenses      decimal.Decimal
	ExpectedCash       decimal.Decimal
}

// AggregateShift folds the shift's sales and cash-ledger entries into
// totals. Pure function of its inputs: no side effects, commutative sums,
// safe to recompute on every report request.
//
// sales must already be shift-scoped and non-credit; ledger holds the
// shift's expenses and manual entries. Manual entries carrying a payment
// method count toward that method's total like a sale; method-less
// entries land in the separate drawer-float bucket. Expenses carry no
// method split — all are assumed cash outflow.
func AggregateShift(sales []model.Sale, ledger []model.CashTransaction) ShiftTotals {
	t := ShiftTotals{
		ByMethod:           map[string]decimal.Decimal{},
		TotalRevenue:       decimal.Zero,
		TotalManualEntries: decimal.Zero,
		TotalExpenses:      decimal.Zero,
	}

	for _, s := range sales {
		t.ByMethod[s.PaymentMethod] = t.ByMethod[s.PaymentMethod].Add(s.Total)
	}

	for _, e := range ledger {
		switch e.Kind {
		case model.TxExpense:
			t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
		case model.TxManualEntry:
			if e.PaymentMethod != nil {
				t.ByMethod[*e.PaymentMethod] = t.ByMethod[*e.PaymentMethod].Add(e.Amount)
			} else {
				t.TotalManualEntries = t.TotalManualEntries.Add(e.Amount)
			}
		}
	}

	for _, v := range t.ByMethod {
		t.TotalRevenue = t.TotalRevenue.Add(v)
	}
	t.ExpectedCash = t.ByMethod[model.PayCash].Add(t.TotalManualEntries).Sub(t.TotalExpenses)

	return t
}

// ── Report ────────────────────────────────────────────────────────────────────

func (s *shiftService) Report(ctx context.Context) (*dto.ShiftReportResponse, error) {
	window, err := s.shiftRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListShiftScoped(ctx, window.StartedAt)
	if err != nil {
		return nil, err
	}
	ledger, err := s.cashRepo.ListShiftScoped(ctx, window.StartedAt)
	if err != nil {
		return nil, err
	}

	totals := AggregateShift(sales, ledger)

	// Credit figures follow the business day, not the drawer shift.
	today := time.Now()
	creditSales, err := s.saleRepo.ListCreditSalesOn(ctx, today)
	if err != nil {
		return nil, err
	}
	creditTotal := decimal.Zero
	for _, cs := range creditSales {
		creditTotal = creditTotal.Add(cs.Total)
	}

	debtPayments, err := s.cashRepo.ListDebtPaymentsOn(ctx, today)
	if err != nil {
		return nil, err
	}
	debtPaid := decimal.Zero
	for _, p := range debtPayments {
		debtPaid = debtPaid.Add(p.Amount)
	}

	return &dto.ShiftReportResponse{
		ShiftStartedAt: window.StartedAt.Format(time.RFC3339),
		Totals: dto.MethodTotals{
			Cash: totals.ByMethod[model.PayCash],
			Pix:  totals.ByMethod[model.PayPix],
			Card: totals.ByMethod[model.PayCard],
		},
		TotalRevenue:       totals.TotalRevenue,
		TotalManualEntries: totals.TotalManualEntries,
		TotalExpenses:      totals.TotalExpenses,
		ExpectedCash:       totals.ExpectedCash,
		SaleCount:          len(sales),
		CreditSalesToday:   creditTotal,
		DebtPaymentsToday:  debtPaid,
	}, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *shiftService) Close(ctx context.Context, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ClosureResponse, error) {
	// Floor-entry requirement: the counter must key in the physically
	// counted amount before confirming; zero means no count was done.
	if !req.CountedCash.IsPositive() {
		return nil, errors.New("counted cash must be greater than zero")
	}

	window, err := s.shiftRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListShiftScoped(ctx, window.StartedAt)
	if err != nil {
		return nil, err
	}
	ledger, err := s.cashRepo.ListShiftScoped(ctx, window.StartedAt)
	if err != nil {
		return nil, err
	}

	totals := AggregateShift(sales, ledger)
	now := time.Now()

	closure := &model.DailyClosure{
		ClosedAt:           now,
		ShiftStartedAt:     window.StartedAt,
		TotalCash:          totals.ByMethod[model.PayCash],
		TotalPix:           totals.ByMethod[model.PayPix],
		TotalCard:          totals.ByMethod[model.PayCard],
		TotalRevenue:       totals.TotalRevenue,
		TotalManualEntries: totals.TotalManualEntries,
		TotalExpenses:      totals.TotalExpenses,
		ExpectedCash:       totals.ExpectedCash,
		CountedCash:        req.CountedCash,
		Variance:           req.CountedCash.Sub(totals.ExpectedCash),
		Notes:              req.Notes,
		ClosedBy:           userID,
	}

	// The closure append and the window advance must land together:
	// a closure without an advanced window doubles the next shift's
	// figures, an advanced window without a closure loses the audit row.
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		if err := s.closureRepo.CreateTx(tx, closure); err != nil {
			return err
		}
		rows, err := s.shiftRepo.AdvanceTx(tx, window.Version, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrShiftConflict
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async closure report PDF (best-effort — fire & forget)
	if s.dispatcher != nil && s.docRepo != nil {
		ref := closure.ID
		doc := &model.Document{
			Kind:        model.DocClosureReport,
			ReferenceID: &ref,
			Title:       "Cash closing " + now.Format("02/01/2006 15:04"),
		}
		if err := s.docRepo.Create(ctx, doc); err == nil {
			_ = s.dispatcher.EnqueueDocument(ctx, doc.ID)
		}
	}

	return closureToResponse(closure), nil
}

func closureToResponse(c *model.DailyClosure) *dto.ClosureResponse {
	return &dto.ClosureResponse{
		ID:             c.ID.String(),
		ClosedAt:       c.ClosedAt.Format(time.RFC3339),
		ShiftStartedAt: c.ShiftStartedAt.Format(time.RFC3339),
		Totals: dto.MethodTotals{
			Cash: c.TotalCash,
			Pix:  c.TotalPix,
			Card: c.TotalCard,
		},
		TotalRevenue:       c.TotalRevenue,
		TotalManualEntries: c.TotalManualEntries,
		TotalExpenses:      c.TotalExpenses,
		ExpectedCash:       c.ExpectedCash,
		CountedCash:        c.CountedCash,
		Variance:           c.Variance,
		Notes:              c.Notes,
		ClosedBy:           c.ClosedBy.String(),
	}
}
