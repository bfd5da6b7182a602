package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/motorepuestos/shop/internal/logging"
	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/mykafka"
	"github.com/motorepuestos/shop/internal/repo"
)

type OrderService struct {
	Repo      *repo.GormRepo
	Inventory *InventoryService
	Producer  *mykafka.Producer
}

type OrderLineInput struct {
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	Notes           string
	Items           []OrderLineInput
}

// statusTransitions encodes the forward-only workflow: the main chain
// advances one way, cancelled is reachable from any non-terminal state.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder persists the header and its items as one unit with the
// status forced to pending and every line total computed server-side.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("at least one item required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, fmt.Errorf("customer name required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, fmt.Errorf("customer email required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return nil, fmt.Errorf("customer phone required: %w", ErrValidation)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))

	for i := range in.Items {
		line := in.Items[i]
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("product_id required: %w", ErrValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0: %w", ErrValidation)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit price must be >= 0: %w", ErrValidation)
		}

		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductSKU:  line.ProductSKU,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  lineTotal,
		})
		total = total.Add(lineTotal)
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerAddress: in.CustomerAddress,
		CustomerCity:    in.CustomerCity,
		Notes:           in.Notes,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
	}

	if err := s.Repo.CreateOrder(ctx, order, items); err != nil {
		return nil, err
	}

	s.decrementStock(ctx, order.ID, items)

	publish(ctx, s.Producer, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(items),
	})

	return order, nil
}

// decrementStock routes the checkout write through the stock adjustment
// path. Best effort: a failed decrement is logged, the order stands.
func (s *OrderService) decrementStock(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) {
	if s.Inventory == nil {
		return
	}
	l := logging.FromContext(ctx)
	for _, it := range items {
		reason := fmt.Sprintf("order %s", orderID)
		if _, err := s.Inventory.AdjustStock(ctx, it.ProductID, -it.Quantity, reason); err != nil {
			l.Error("stock decrement failed", "order_id", orderID, "product_id", it.ProductID, "error", err)
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return s.Repo.GetOrderItems(ctx, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

// UpdateStatus moves an order along the workflow, rejecting transitions
// the table does not allow.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, ErrValidation)
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("cannot move order from %q to %q: %w", order.Status, newStatus, ErrConflict)
	}

	if err := s.Repo.SetOrderStatus(ctx, id, order.Status, newStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s changed concurrently: %w", id, ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicOrderEvents, id.String(), map[string]any{
		"type":     "order_status_changed",
		"order_id": id,
		"from":     order.Status,
		"to":       newStatus,
	})

	return s.GetOrder(ctx, id)
}
