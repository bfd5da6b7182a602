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

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// ProductPatch carries a partial update; nil fields stay untouched.
// Stock is deliberately absent: stock only moves through the inventory
// service so every mutation leaves an audit row.
type ProductPatch struct {
	Name             *string
	SKU              *string
	Price            *decimal.Decimal
	DiscountPrice    *decimal.NullDecimal
	Brand            *string
	Category         *models.Category
	CompatibleModels *[]string
	Description      *string
	Features         *[]string
	Images           *[]string
	IsNew            *bool
	IsSpecialOrder   *bool
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

// ListProducts filters by category and/or a case-insensitive substring
// match over name, sku and brand. Category "todos" means no filter.
func (s *CatalogService) ListProducts(ctx context.Context, category, query string, offset, limit int) (int64, []models.Product, error) {
	f := repo.ProductFilter{Query: strings.TrimSpace(query)}

	if category != "" && category != "todos" {
		cat := models.Category(category)
		if !cat.Valid() {
			return 0, nil, fmt.Errorf("unknown category %q: %w", category, ErrValidation)
		}
		f.Category = cat
	}

	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name required: %w", ErrValidation)
	}
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("sku required: %w", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if p.DiscountPrice.Valid && !p.DiscountPrice.Decimal.LessThan(p.Price) {
		return fmt.Errorf("discount price must be lower than price: %w", ErrValidation)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", p.Category, ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	created, err := s.Repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, created.ID.String(), map[string]any{
		"type":       "product_created",
		"product_id": created.ID,
		"sku":        created.SKU,
		"name":       created.Name,
	})

	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.SKU != nil {
		product.SKU = *patch.SKU
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.DiscountPrice != nil {
		product.DiscountPrice = *patch.DiscountPrice
	}
	if patch.Brand != nil {
		product.Brand = *patch.Brand
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.CompatibleModels != nil {
		product.CompatibleModels = *patch.CompatibleModels
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Features != nil {
		product.Features = *patch.Features
	}
	if patch.Images != nil {
		product.Images = *patch.Images
	}
	if patch.IsNew != nil {
		product.IsNew = *patch.IsNew
	}
	if patch.IsSpecialOrder != nil {
		product.IsSpecialOrder = *patch.IsSpecialOrder
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, product.ID.String(), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"sku":        product.SKU,
		"name":       product.Name,
	})

	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}
