package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/mykafka"
	"github.com/motorepuestos/shop/internal/repo"
)

const DefaultLowStockThreshold = 5

type InventoryService struct {
	Repo              *repo.GormRepo
	Producer          *mykafka.Producer
	LowStockThreshold int
}

type StockSummary struct {
	TotalProducts   int             `json:"total_products"`
	TotalStock      int             `json:"total_stock"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

func (s *InventoryService) threshold() int {
	if s.LowStockThreshold > 0 {
		return s.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

// SetStock overwrites the stock count unconditionally (last-write-wins)
// and records the previous and new values for audit.
func (s *InventoryService) SetStock(ctx context.Context, productID uuid.UUID, newStock int, reason string) (*models.StockMovement, error) {
	if newStock < 0 {
		return nil, fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("reason required: %w", ErrValidation)
	}

	mv, err := s.Repo.SetStock(ctx, productID, newStock, models.MovementAdjustment, reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	s.publishMovement(ctx, mv)
	return mv, nil
}

// AdjustStock applies a signed delta, clamped at zero: going below zero
// floors the stock rather than failing.
func (s *InventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string) (*models.StockMovement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("reason required: %w", ErrValidation)
	}

	movementType := models.MovementAdjustment
	switch {
	case delta > 0:
		movementType = models.MovementIn
	case delta < 0:
		movementType = models.MovementOut
	}

	mv, err := s.Repo.AdjustStock(ctx, productID, delta, movementType, reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	s.publishMovement(ctx, mv)
	return mv, nil
}

func (s *InventoryService) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = s.threshold()
	}
	return s.Repo.LowStockProducts(ctx, threshold)
}

func (s *InventoryService) GetStockSummary(ctx context.Context) (*StockSummary, error) {
	products, err := s.Repo.AllStockLevels(ctx)
	if err != nil {
		return nil, err
	}

	summary := StockSummary{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
	}
	for _, p := range products {
		summary.TotalStock += p.Stock
		summary.TotalValue = summary.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock <= s.threshold() {
			summary.LowStockCount++
		}
		if p.Stock == 0 {
			summary.OutOfStockCount++
		}
	}
	return &summary, nil
}

func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockMovement, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.ListStockMovements(ctx, productID, limit)
}

func (s *InventoryService) publishMovement(ctx context.Context, mv *models.StockMovement) {
	publish(ctx, s.Producer, mykafka.TopicStockEvents, mv.ProductID.String(), map[string]any{
		"type":           "stock_movement",
		"product_id":     mv.ProductID,
		"movement_type":  mv.MovementType,
		"quantity":       mv.Quantity,
		"previous_stock": mv.PreviousStock,
		"new_stock":      mv.NewStock,
		"reason":         mv.Reason,
	})
}
