package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/motorepuestos/shop/internal/logging"
	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/service"
	"github.com/motorepuestos/shop/internal/util"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return toHTTPError(l, "get_product_error", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProducts(ctx, c.QueryParam("category"), c.QueryParam("q"), offset, limit)
	if err != nil {
		return toHTTPError(l, "list_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product := models.Product{
		Name:             req.Name,
		SKU:              req.SKU,
		Price:            req.Price,
		Brand:            req.Brand,
		Category:         models.Category(req.Category),
		CompatibleModels: pq.StringArray(req.CompatibleModels),
		Description:      req.Description,
		Features:         pq.StringArray(req.Features),
		Images:           pq.StringArray(req.Images),
		Stock:            req.Stock,
		IsNew:            req.IsNew,
		IsSpecialOrder:   req.IsSpecialOrder,
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = decimal.NullDecimal{Decimal: *req.DiscountPrice, Valid: true}
	}

	created, err := h.Svc.CreateProduct(ctx, &product)
	if err != nil {
		return toHTTPError(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	patch := service.ProductPatch{
		Name:           req.Name,
		SKU:            req.SKU,
		Price:          req.Price,
		Brand:          req.Brand,
		Description:    req.Description,
		IsNew:          req.IsNew,
		IsSpecialOrder: req.IsSpecialOrder,
	}
	if req.DiscountPrice != nil {
		nd := decimal.NullDecimal{Decimal: *req.DiscountPrice, Valid: true}
		patch.DiscountPrice = &nd
	}
	if req.Category != nil {
		cat := models.Category(*req.Category)
		patch.Category = &cat
	}
	if req.CompatibleModels != nil {
		v := []string(*req.CompatibleModels)
		patch.CompatibleModels = &v
	}
	if req.Features != nil {
		v := []string(*req.Features)
		patch.Features = &v
	}
	if req.Images != nil {
		v := []string(*req.Images)
		patch.Images = &v
	}

	product, err := h.Svc.PatchProduct(ctx, id, patch)
	if err != nil {
		return toHTTPError(l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return toHTTPError(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
