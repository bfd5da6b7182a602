package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motorepuestos/shop/internal/models"
)

// StringList accepts either a JSON array of strings or a bare string.
// Rows imported from the old store are ambiguous about list fields, so
// the shape is normalized once here, at the edge.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = []string{}
		} else {
			*s = []string{one}
		}
		return nil
	}

	return fmt.Errorf("expected string or array of strings")
}

type CreateProductRequest struct {
	Name             string           `json:"name"`
	SKU              string           `json:"sku"`
	Price            decimal.Decimal  `json:"price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price"`
	Brand            string           `json:"brand"`
	Category         string           `json:"category"`
	CompatibleModels StringList       `json:"compatible_models"`
	Description      string           `json:"description"`
	Features         StringList       `json:"features"`
	Images           StringList       `json:"images"`
	Stock            int              `json:"stock"`
	IsNew            bool             `json:"is_new"`
	IsSpecialOrder   bool             `json:"is_special_order"`
}

type PatchProductRequest struct {
	Name             *string          `json:"name"`
	SKU              *string          `json:"sku"`
	Price            *decimal.Decimal `json:"price"`
	DiscountPrice    *decimal.Decimal `json:"discount_price"`
	Brand            *string          `json:"brand"`
	Category         *string          `json:"category"`
	CompatibleModels *StringList      `json:"compatible_models"`
	Description      *string          `json:"description"`
	Features         *StringList      `json:"features"`
	Images           *StringList      `json:"images"`
	IsNew            *bool            `json:"is_new"`
	IsSpecialOrder   *bool            `json:"is_special_order"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CartResponse struct {
	Items      []models.CartItem `json:"items"`
	Total      decimal.Decimal   `json:"total"`
	TotalItems int               `json:"total_items"`
}

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerCity    string `json:"customer_city"`
	Notes           string `json:"notes"`
}

type CheckoutResponse struct {
	Order        *models.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link,omitempty"`
}

type SetStockRequest struct {
	Stock  *int   `json:"stock"`
	Reason string `json:"reason"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
