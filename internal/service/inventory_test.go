package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorepuestos/shop/internal/models"
)

func TestAdjustStockClampsAtZero(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, func(p *models.Product) { p.Stock = 3 })

	mv, err := svc.AdjustStock(ctx, p.ID, -10, "conteo físico")
	require.NoError(t, err)

	assert.Equal(t, 3, mv.PreviousStock)
	assert.Equal(t, 0, mv.NewStock)
	assert.Equal(t, models.MovementOut, mv.MovementType)
	assert.Equal(t, -3, mv.Quantity, "the recorded delta is the applied one, not the requested one")

	var got models.Product
	require.NoError(t, r.DB.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 0, got.Stock)
}

func TestAdjustStockPositiveDelta(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}

	p := seedProduct(t, r, func(p *models.Product) { p.Stock = 2 })

	mv, err := svc.AdjustStock(context.Background(), p.ID, 5, "recepción de mercadería")
	require.NoError(t, err)
	assert.Equal(t, 7, mv.NewStock)
	assert.Equal(t, models.MovementIn, mv.MovementType)
}

func TestSetStockRejectsNegative(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}

	p := seedProduct(t, r, func(p *models.Product) { p.Stock = 4 })

	_, err := svc.SetStock(context.Background(), p.ID, -1, "conteo físico")
	require.ErrorIs(t, err, ErrValidation)

	var got models.Product
	require.NoError(t, r.DB.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 4, got.Stock, "failed set must not touch the stock")
}

func TestStockMutationsRequireReason(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, nil)

	_, err := svc.SetStock(ctx, p.ID, 5, "   ")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AdjustStock(ctx, p.ID, 1, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestStockMutationUnknownProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	_, err := svc.SetStock(ctx, uuid.New(), 5, "conteo físico")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AdjustStock(ctx, uuid.New(), 1, "conteo físico")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEveryMutationLeavesAMovement(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, func(p *models.Product) { p.Stock = 10 })

	_, err := svc.SetStock(ctx, p.ID, 8, "conteo físico")
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, p.ID, -3, "venta en mostrador")
	require.NoError(t, err)

	movements, err := svc.ListMovements(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	for _, mv := range movements {
		assert.Equal(t, p.ID, mv.ProductID)
		assert.NotEmpty(t, mv.Reason)
	}
}

func TestLowStockProducts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-1"; p.Stock = 0 })
	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-2"; p.Stock = 3 })
	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-3"; p.Stock = 5 })
	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-4"; p.Stock = 50 })

	// threshold <= 0 falls back to the default of 5.
	products, err := svc.LowStockProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "A-1", products[0].SKU, "most depleted first")
	assert.Equal(t, "A-3", products[2].SKU)

	products, err = svc.LowStockProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestStockSummary(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}

	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-1"; p.Stock = 0; p.Price = decimal.NewFromInt(100) })
	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-2"; p.Stock = 2; p.Price = decimal.NewFromInt(50) })
	seedProduct(t, r, func(p *models.Product) { p.SKU = "A-3"; p.Stock = 20; p.Price = decimal.NewFromInt(10) })

	summary, err := svc.GetStockSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 22, summary.TotalStock)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(300)), "got %s", summary.TotalValue)
	assert.Equal(t, 2, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStockCount)
}
