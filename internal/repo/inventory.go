package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motorepuestos/shop/internal/models"
)

// lockProduct loads the product row for update. sqlite (the test
// database) has no FOR UPDATE; its single-writer model makes the lock
// unnecessary there.
func lockProduct(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p models.Product
	if err := q.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func writeStock(tx *gorm.DB, p *models.Product, newStock int, movementType models.MovementType, reason string) (*models.StockMovement, error) {
	if err := tx.Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"stock":      newStock,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return nil, err
	}

	mv := models.StockMovement{
		ProductID:     p.ID,
		MovementType:  movementType,
		Quantity:      newStock - p.Stock,
		Reason:        reason,
		PreviousStock: p.Stock,
		NewStock:      newStock,
	}
	if err := tx.Create(&mv).Error; err != nil {
		return nil, err
	}
	return &mv, nil
}

func (r *GormRepo) SetStock(ctx context.Context, productID uuid.UUID, newStock int, movementType models.MovementType, reason string) (*models.StockMovement, error) {
	var mv *models.StockMovement
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		mv, err = writeStock(tx, p, newStock, movementType, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// AdjustStock applies a signed delta with a floor of zero: an adjustment
// that would go negative clamps to zero instead of failing.
func (r *GormRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, movementType models.MovementType, reason string) (*models.StockMovement, error) {
	var mv *models.StockMovement
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		newStock := p.Stock + delta
		if newStock < 0 {
			newStock = 0
		}
		mv, err = writeStock(tx, p, newStock, movementType, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

func (r *GormRepo) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AllStockLevels(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Select("id", "stock", "price").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListStockMovements(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	q := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if productID != uuid.Nil {
		q = q.Where("product_id = ?", productID)
	}
	if err := q.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
