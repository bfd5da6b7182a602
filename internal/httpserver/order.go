package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/motorepuestos/shop/internal/logging"
	authmw "github.com/motorepuestos/shop/internal/middleware/auth"
	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/service"
	"github.com/motorepuestos/shop/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Cart     *service.CartService
	WhatsApp service.WhatsApp
}

// Checkout turns the caller's current cart into an order. The cart is
// cleared only after the order is in, so a failure leaves it intact for
// retry.
func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		l.Warn("checkout_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Cart.GetCart(ctx, owner)
	if err != nil {
		return toHTTPError(l, "checkout_error", err)
	}

	in := service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		CustomerCity:    req.CustomerCity,
		Notes:           req.Notes,
	}
	for _, it := range items {
		in.Items = append(in.Items, service.OrderLineInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.ProductPrice,
		})
	}

	order, err := h.Svc.CreateOrder(ctx, in)
	if err != nil {
		return toHTTPError(l, "checkout_error", err)
	}

	if err := h.Cart.Clear(ctx, owner); err != nil {
		l.Error("cart clear after checkout failed", "order_id", order.ID, "error", err)
	}

	resp := CheckoutResponse{Order: order}
	if h.WhatsApp.Number != "" {
		orderItems, err := h.Svc.GetOrderItems(ctx, order.ID)
		if err == nil {
			resp.WhatsAppLink = h.WhatsApp.BuildMessageLink(h.WhatsApp.OrderSummary(order, orderItems))
		}
	}

	l.Info("checkout_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, resp)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return toHTTPError(l, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return toHTTPError(l, "get_order_error", err)
	}

	items, err := h.Svc.GetOrderItems(ctx, id)
	if err != nil {
		return toHTTPError(l, "get_order_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, models.OrderStatus(req.Status))
	if err != nil {
		return toHTTPError(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}
