package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/mykafka"
	"github.com/motorepuestos/shop/internal/repo"
)

// CartService keeps one cart per owner key. Guest and authenticated
// identities use distinct keys, so switching identity swaps the active
// cart wholesale; guest lines are never merged into a user cart.
type CartService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *CartService) GetCart(ctx context.Context, ownerKey string) ([]models.CartItem, error) {
	if ownerKey == "" {
		return nil, fmt.Errorf("owner key required: %w", ErrValidation)
	}
	return s.Repo.GetCart(ctx, ownerKey)
}

// AddItem merges into an existing line for the same product (quantity
// adds up, the price snapshot stays) or creates a new line snapshotting
// the effective price and primary image at add time.
func (s *CartService) AddItem(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if ownerKey == "" {
		return nil, fmt.Errorf("owner key required: %w", ErrValidation)
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	item := models.CartItem{
		OwnerKey:     ownerKey,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductSKU:   product.SKU,
		ProductPrice: product.EffectivePrice(),
		Quantity:     quantity,
		ProductImage: product.PrimaryImage(),
	}
	if err := s.Repo.UpsertCartItem(ctx, &item); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, ownerKey, map[string]any{
		"type":       "cart_item_added",
		"owner":      ownerKey,
		"product_id": product.ID,
		"quantity":   item.Quantity,
	})

	return &item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, ownerKey string, productID uuid.UUID) error {
	if ownerKey == "" {
		return fmt.Errorf("owner key required: %w", ErrValidation)
	}
	if productID == uuid.Nil {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}

	// Removing an absent line is a no-op, not an error.
	if err := s.Repo.RemoveCartItem(ctx, ownerKey, productID); err != nil {
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, ownerKey, map[string]any{
		"type":       "cart_item_removed",
		"owner":      ownerKey,
		"product_id": productID,
	})
	return nil
}

// UpdateQuantity replaces the line quantity exactly. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerKey string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveItem(ctx, ownerKey, productID)
	}
	if ownerKey == "" {
		return nil, fmt.Errorf("owner key required: %w", ErrValidation)
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}

	item, err := s.Repo.SetCartItemQuantity(ctx, ownerKey, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line for product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) Clear(ctx context.Context, ownerKey string) error {
	if ownerKey == "" {
		return fmt.Errorf("owner key required: %w", ErrValidation)
	}
	if err := s.Repo.ClearCart(ctx, ownerKey); err != nil {
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, ownerKey, map[string]any{
		"type":  "cart_cleared",
		"owner": ownerKey,
	})
	return nil
}

// CartTotal sums price*quantity over the lines. Zero-value prices count
// as zero, the total of an empty cart is exactly zero.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ProductPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func CartItemCount(items []models.CartItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}
