package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/motorepuestos/shop/internal/logging"
	"github.com/motorepuestos/shop/internal/service"
)

type InventoryHTTP struct {
	Svc *service.InventoryService
}

func (h *InventoryHTTP) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.set_stock")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("set_stock_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_stock_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Stock == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "stock required")
	}

	mv, err := h.Svc.SetStock(ctx, id, *req.Stock, req.Reason)
	if err != nil {
		return toHTTPError(l, "set_stock_error", err)
	}

	l.Info("set_stock_success", "product_id", id, "new_stock", mv.NewStock)
	return c.JSON(http.StatusOK, mv)
}

func (h *InventoryHTTP) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.adjust_stock")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("adjust_stock_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("adjust_stock_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	mv, err := h.Svc.AdjustStock(ctx, id, req.Delta, req.Reason)
	if err != nil {
		return toHTTPError(l, "adjust_stock_error", err)
	}

	l.Info("adjust_stock_success", "product_id", id, "new_stock", mv.NewStock)
	return c.JSON(http.StatusOK, mv)
}

func (h *InventoryHTTP) LowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.low_stock")

	threshold := parseIntDefault(c.QueryParam("threshold"), 0)

	products, err := h.Svc.LowStockProducts(ctx, threshold)
	if err != nil {
		return toHTTPError(l, "low_stock_error", err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *InventoryHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.summary")

	summary, err := h.Svc.GetStockSummary(ctx)
	if err != nil {
		return toHTTPError(l, "stock_summary_error", err)
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *InventoryHTTP) Movements(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.movements")

	productID := uuid.Nil
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		productID = id
	}
	limit := parseIntDefault(c.QueryParam("limit"), 50)

	movements, err := h.Svc.ListMovements(ctx, productID, limit)
	if err != nil {
		return toHTTPError(l, "list_movements_error", err)
	}

	return c.JSON(http.StatusOK, movements)
}
