package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/service"
)

func newOrderHTTP(env *testEnv) *OrderHTTP {
	inventory := &service.InventoryService{Repo: env.Repo}
	return &OrderHTTP{
		Svc:      &service.OrderService{Repo: env.Repo, Inventory: inventory},
		Cart:     env.Cart.Svc,
		WhatsApp: service.WhatsApp{Number: "573001112233", StoreName: "Moto Repuestos Pro"},
	}
}

func checkoutBody() map[string]any {
	return map[string]any{
		"customer_name":  "Juan Pérez",
		"customer_email": "juan@example.com",
		"customer_phone": "+57 300 000 0000",
		"customer_city":  "Bogotá",
	}
}

func TestCheckoutHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newOrderHTTP(env)

	p := env.seedProduct(func(p *models.Product) {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(80))
	})

	_, addCtx := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{
		"product_id": p.ID,
		"quantity":   3,
	})
	addCtx.Set("owner_key", "guest:abc")
	require.NoError(t, env.Cart.AddToCart(addCtx))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", checkoutBody())
	c.Set("owner_key", "guest:abc")

	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Order)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)
	assert.True(t, resp.Order.TotalAmount.Equal(decimal.NewFromInt(240)), "got %s", resp.Order.TotalAmount)

	require.True(t, strings.HasPrefix(resp.WhatsAppLink, "https://wa.me/573001112233?text="))
	u, err := url.Parse(resp.WhatsAppLink)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "MOT-KP-150")

	// The cart is spent.
	items, err := env.Cart.Svc.GetCart(c.Request().Context(), "guest:abc")
	require.NoError(t, err)
	assert.Empty(t, items)

	// The stock moved.
	var got models.Product
	require.NoError(t, env.Repo.DB.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 7, got.Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	h := newOrderHTTP(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", checkoutBody())
	c.Set("owner_key", "guest:empty")

	err := h.Checkout(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCheckoutMissingCustomerLeavesCart(t *testing.T) {
	env := newTestEnv(t)
	h := newOrderHTTP(env)

	p := env.seedProduct(nil)

	_, addCtx := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": p.ID})
	addCtx.Set("owner_key", "guest:abc")
	require.NoError(t, env.Cart.AddToCart(addCtx))

	body := checkoutBody()
	body["customer_phone"] = ""
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", body)
	c.Set("owner_key", "guest:abc")

	err := h.Checkout(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))

	items, err2 := env.Cart.Svc.GetCart(c.Request().Context(), "guest:abc")
	require.NoError(t, err2)
	assert.Len(t, items, 1, "a failed checkout must keep the cart for retry")
}

func TestUpdateStatusHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newOrderHTTP(env)

	p := env.seedProduct(nil)

	_, addCtx := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": p.ID})
	addCtx.Set("owner_key", "guest:abc")
	require.NoError(t, env.Cart.AddToCart(addCtx))

	recCheckout, cCheckout := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", checkoutBody())
	cCheckout.Set("owner_key", "guest:abc")
	require.NoError(t, h.Checkout(cCheckout))

	var created CheckoutResponse
	require.NoError(t, json.Unmarshal(recCheckout.Body.Bytes(), &created))

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{"status": "confirmed"})
	c.SetParamNames("id")
	c.SetParamValues(created.Order.ID.String())

	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)

	// Skipping states is rejected.
	_, cBad := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{"status": "delivered"})
	cBad.SetParamNames("id")
	cBad.SetParamValues(created.Order.ID.String())
	require.Equal(t, http.StatusConflict, httpErrorCode(t, h.UpdateStatus(cBad)))

	// Unknown states are a validation error.
	_, cUnknown := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{"status": "misplaced"})
	cUnknown.SetParamNames("id")
	cUnknown.SetParamValues(created.Order.ID.String())
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, h.UpdateStatus(cUnknown)))
}
