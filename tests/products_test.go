package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/spetoki/pastelFacil-sub000/internal/dto"
	"github.com/spetoki/pastelFacil-sub000/internal/model"
	"github.com/spetoki/pastelFacil-sub000/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(repo *memProductRepo, stockRepo *memStockRepo) service.ProductService {
	// nil Redis client: price lookups always hit the repository
	return service.NewProductService(repo, stockRepo, nil, 60)
}

func TestCreateProduct(t *testing.T) {
	repo := newMemProductRepo()
	svc := newProductService(repo, &memStockRepo{})

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Barcode:   strPtr("7891000100103"),
		Name:      "  Orchid pot 15cm ",
		Category:  "pots",
		CostPrice: dec("4.00"),
		SalePrice: dec("12.90"),
		Stock:     30,
		MinStock:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Orchid pot 15cm", resp.Name)
	assert.Equal(t, "unit", resp.Unit)
	assert.True(t, resp.Active)
}

func TestCreateProductSaleBelowCostRejected(t *testing.T) {
	svc := newProductService(newMemProductRepo(), &memStockRepo{})

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Loss leader",
		Category:  "general",
		CostPrice: dec("10.00"),
		SalePrice: dec("8.00"),
	})
	assert.ErrorContains(t, err, "below cost")
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	repo := newMemProductRepo()
	repo.seed(model.Product{Barcode: strPtr("111222333"), Name: "Existing", Active: true})

	// duplicatingProductRepo mirrors the unique-index violation the DB
	// would raise on the second insert
	svc := service.NewProductService(&duplicatingProductRepo{memProductRepo: repo}, &memStockRepo{}, nil, 60)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Barcode:   strPtr("111222333"),
		Name:      "Clone",
		Category:  "general",
		SalePrice: dec("1.00"),
	})
	assert.ErrorContains(t, err, "barcode already exists")
}

type duplicatingProductRepo struct {
	*memProductRepo
}

func (r *duplicatingProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.Barcode != nil {
		for _, existing := range r.products {
			if existing.Barcode != nil && *existing.Barcode == *p.Barcode {
				return errDuplicateKey
			}
		}
	}
	return r.memProductRepo.Create(context.Background(), p)
}

var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

func TestAdjustStockRestock(t *testing.T) {
	repo := newMemProductRepo()
	stockRepo := &memStockRepo{}
	pid := repo.seed(model.Product{Name: "Potting soil 5kg", Stock: 8, Active: true})
	svc := newProductService(repo, stockRepo)

	resp, err := svc.AdjustStock(context.Background(), pid, dto.AdjustStockRequest{
		Delta:  12,
		Reason: "weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Stock)

	require.Len(t, stockRepo.movs, 1)
	assert.Equal(t, "restock", stockRepo.movs[0].Kind)
	assert.Equal(t, 8, stockRepo.movs[0].StockBefore)
	assert.Equal(t, 20, stockRepo.movs[0].StockAfter)
}

func TestAdjustStockNegativeFloor(t *testing.T) {
	repo := newMemProductRepo()
	pid := repo.seed(model.Product{Name: "Rare fern", Stock: 3, Active: true})
	svc := newProductService(repo, &memStockRepo{})

	_, err := svc.AdjustStock(context.Background(), pid, dto.AdjustStockRequest{
		Delta:  -5,
		Reason: "inventory count",
	})
	assert.ErrorContains(t, err, "negative stock")
	assert.Equal(t, 3, repo.products[pid].Stock)
}

func TestAdjustStockDownwardCorrection(t *testing.T) {
	repo := newMemProductRepo()
	stockRepo := &memStockRepo{}
	pid := repo.seed(model.Product{Name: "Clay pot", Stock: 10, Active: true})
	svc := newProductService(repo, stockRepo)

	resp, err := svc.AdjustStock(context.Background(), pid, dto.AdjustStockRequest{
		Delta:  -2,
		Reason: "two broken in storage",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Stock)
	assert.Equal(t, "adjustment", stockRepo.movs[0].Kind)
}

func TestPriceCheck(t *testing.T) {
	repo := newMemProductRepo()
	repo.seed(model.Product{
		Barcode:   strPtr("7891000200101"),
		Name:      "Succulent mini",
		SalePrice: dec("7.50"),
		Stock:     4,
		Unit:      "unit",
		Active:    true,
	})
	svc := newProductService(repo, &memStockRepo{})

	resp, err := svc.PriceCheck(context.Background(), "7891000200101")
	require.NoError(t, err)
	assert.Equal(t, "Succulent mini", resp.Name)
	assert.Equal(t, "7.5", resp.SalePrice.String())
	assert.True(t, resp.InStock)
}

func TestPriceCheckUnknownBarcode(t *testing.T) {
	svc := newProductService(newMemProductRepo(), &memStockRepo{})

	_, err := svc.PriceCheck(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestPriceCheckInactiveProductHidden(t *testing.T) {
	repo := newMemProductRepo()
	repo.seed(model.Product{
		Barcode: strPtr("7891000300109"), Name: "Retired item",
		SalePrice: dec("3.00"), Active: false,
	})
	svc := newProductService(repo, &memStockRepo{})

	_, err := svc.PriceCheck(context.Background(), "7891000300109")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestUpdateProductSalePriceValidation(t *testing.T) {
	repo := newMemProductRepo()
	pid := repo.seed(model.Product{Name: "Bonsai kit", SalePrice: dec("49.90"), Active: true})
	svc := newProductService(repo, &memStockRepo{})

	bad := dec("0")
	_, err := svc.Update(context.Background(), pid, dto.UpdateProductRequest{SalePrice: &bad})
	assert.ErrorContains(t, err, "positive")

	good := dec("59.90")
	resp, err := svc.Update(context.Background(), pid, dto.UpdateProductRequest{SalePrice: &good})
	require.NoError(t, err)
	assert.Equal(t, "59.9", resp.SalePrice.String())
}
