package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/motorepuestos/shop/internal/logging"
	authmw "github.com/motorepuestos/shop/internal/middleware/auth"
	"github.com/motorepuestos/shop/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) cartResponse(c echo.Context, owner string) error {
	items, err := h.Svc.GetCart(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CartResponse{
		Items:      items,
		Total:      service.CartTotal(items),
		TotalItems: service.CartItemCount(items),
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		l.Warn("get_cart_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	if err := h.cartResponse(c, owner); err != nil {
		return toHTTPError(l, "get_cart_error", err)
	}
	return nil
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		l.Warn("add_to_cart_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		l.Warn("add_to_cart_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.Svc.AddItem(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		return toHTTPError(l, "add_to_cart_error", err)
	}

	l.Info("cart_item_added", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.Svc.UpdateQuantity(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		return toHTTPError(l, "update_quantity_error", err)
	}
	if item == nil {
		// quantity <= 0 removed the line
		return c.JSON(http.StatusOK, map[string]any{"product_id": req.ProductID, "removed": true})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.RemoveItem(ctx, owner, productID); err != nil {
		return toHTTPError(l, "remove_from_cart_error", err)
	}

	if err := h.cartResponse(c, owner); err != nil {
		return toHTTPError(l, "remove_from_cart_error", err)
	}
	return nil
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	owner := authmw.OwnerKey(c)
	if owner == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no cart owner")
	}

	if err := h.Svc.Clear(ctx, owner); err != nil {
		return toHTTPError(l, "clear_cart_error", err)
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, "cart successfully cleared")
}
