package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/repository"
	"github.com/spetoki/pastelFacil-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Register(ctx context.Context, userID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	Void(ctx context.Context, id uuid.UUID, reason string) error
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	stockRepo   repository.StockMovementRepository
	docRepo     repository.DocumentRepository
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	stockRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		stockRepo:   stockRepo,
		docRepo:     docRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Register ──────────────────────────────────────────────────────────────────
// Full ACID checkout:
//   1. Resolve products, snapshot prices, check stock (pre-flight)
//   2. Credit sales: resolve the client and require an active account
//   3. BEGIN TX: nextval sale number, create sale+items, decrement stock
//      with movement records, and for credit sales increase the client debt
//   4. COMMIT
//   5. (async) enqueue receipt document when an email was given

func (s *saleService) Register(ctx context.Context, userID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	// 1. Resolve products and calculate totals (pre-flight, outside TX)
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		subtotal  decimal.Decimal
	}

	var resolved []resolvedItem
	total := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s: %d available", p.Name, p.Stock)
		}
		subtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.SalePrice,
			quantity:  item.Quantity,
			subtotal:  subtotal,
		})
	}

	// 2. Credit sales charge the client account, so a client is mandatory.
	var client *model.Client
	if req.PaymentMethod == model.PayCredit {
		if req.ClientID == nil {
			return nil, errors.New("credit sales require a client")
		}
		cid, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id: %w", err)
		}
		client, err = s.clientRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, errors.New("client not found")
		}
		if !client.Active {
			return nil, errors.New("client account is inactive")
		}
	} else if req.ClientID != nil {
		if cid, err := uuid.Parse(*req.ClientID); err == nil {
			client, _ = s.clientRepo.FindByID(ctx, cid)
		}
	}

	now := time.Now()

	// 3. ACID transaction
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.repo.NextSaleNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			Number:        number,
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			UserID:        userID,
			Status:        "completed",
			OccurredAt:    now,
		}
		if client != nil {
			sale.ClientID = &client.ID
			sale.ClientName = &client.Name
		}

		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.productID,
				Name:      r.name,
				UnitPrice: r.price,
				Quantity:  r.quantity,
				Subtotal:  r.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Decrement stock and record the movement for each line
		for _, r := range resolved {
			before, err := s.productRepo.FindByIDTx(tx, r.productID)
			stockBefore := 0
			if err == nil && before != nil {
				stockBefore = before.Stock
			}

			if err := s.productRepo.UpdateStockTx(tx, r.productID, -r.quantity); err != nil {
				return fmt.Errorf("decrementing stock of %s: %w", r.name, err)
			}

			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.productID,
				Kind:        "sale",
				Quantity:    -r.quantity,
				StockBefore: stockBefore,
				StockAfter:  stockBefore - r.quantity,
				Reason:      fmt.Sprintf("Sale #%d", number),
				ReferenceID: &ref,
			}
			if err := s.stockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Fiado: the sale total lands on the client account instead of
		// the drawer. Same transaction — a crash cannot leave a credit
		// sale without its debt or vice versa.
		if req.PaymentMethod == model.PayCredit {
			if err := s.clientRepo.CreditDebtTx(tx, *sale.ClientID, total); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 4. Async receipt (best-effort — fire & forget)
	if s.dispatcher != nil && s.docRepo != nil && req.ClientEmail != nil && *req.ClientEmail != "" {
		ref := sale.ID
		doc := &model.Document{
			Kind:        model.DocReceipt,
			ReferenceID: &ref,
			ClientID:    sale.ClientID,
			Title:       fmt.Sprintf("Receipt for sale #%d", sale.Number),
			EmailTo:     req.ClientEmail,
		}
		if err := s.docRepo.Create(ctx, doc); err == nil {
			_ = s.dispatcher.EnqueueDocument(ctx, doc.ID)
		}
	}

	return saleToResponse(&sale), nil
}

// ── Void ──────────────────────────────────────────────────────────────────────
// Restores stock, records compensating movements, and for credit sales
// rolls the client debt back (floored at zero when payments already
// settled part of it).

func (s *saleService) Void(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("sale not found")
	}
	if sale.Status == "voided" {
		return errors.New("sale is already voided")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			before, _ := s.productRepo.FindByID(ctx, item.ProductID)
			stockBefore := 0
			if before != nil {
				stockBefore = before.Stock
			}

			if err := s.productRepo.UpdateStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Kind:        "restore_void",
				Quantity:    item.Quantity,
				StockBefore: stockBefore,
				StockAfter:  stockBefore + item.Quantity,
				Reason:      fmt.Sprintf("Void sale #%d — %s", sale.Number, reason),
				ReferenceID: &ref,
			}
			if err := s.stockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if sale.PaymentMethod == model.PayCredit && sale.ClientID != nil {
			// Roll back whatever is still outstanding; payments made in
			// the meantime cap the reversal at the current balance.
			client, err := s.clientRepo.FindByID(ctx, *sale.ClientID)
			if err == nil {
				reversal := sale.Total
				if client.Debt.LessThan(reversal) {
					reversal = client.Debt
				}
				if reversal.IsPositive() {
					if _, err := s.clientRepo.DebitDebtTx(tx, *sale.ClientID, reversal); err != nil {
						return err
					}
				}
			}
		}

		return s.repo.UpdateStatusTx(tx, id, "voided")
	})
}

// List returns a paginated list of sales, filtered by date and status.
// Default filter: today's completed sales.
func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = "completed"
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, v := range sales {
		items = append(items, *saleToResponse(&v))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	return saleToResponse(sale), nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.SaleItemResponse{
			Product:   item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	resp := &dto.SaleResponse{
		ID:            v.ID.String(),
		Number:        v.Number,
		Items:         items,
		Total:         v.Total,
		PaymentMethod: v.PaymentMethod,
		ClientName:    v.ClientName,
		Status:        v.Status,
		OccurredAt:    v.OccurredAt.Format(time.RFC3339),
	}
	if v.ClientID != nil {
		id := v.ClientID.String()
		resp.ClientID = &id
	}
	return resp
}
