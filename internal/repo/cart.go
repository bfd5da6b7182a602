package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motorepuestos/shop/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, ownerKey string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCartItem increments the quantity of an existing line for the same
// product, otherwise creates the line. The price snapshot of an existing
// line is never touched.
func (r *GormRepo) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("owner_key = ? AND product_id = ?", item.OwnerKey, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("owner_key = ? AND product_id = ?", item.OwnerKey, item.ProductID).First(item).Error
		}

		return tx.Create(item).Error
	})
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, ownerKey string, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("owner_key = ? AND product_id = ?", ownerKey, productID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("owner_key = ? AND product_id = ?", ownerKey, productID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("owner_key = ? AND product_id = ?", ownerKey, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, ownerKey string) error {
	return r.DB.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Delete(&models.CartItem{}).Error
}
