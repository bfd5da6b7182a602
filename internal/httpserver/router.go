package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/motorepuestos/shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	ProductHandler   *ProductHTTP
	CartHandler      *CartHTTP
	OrderHandler     *OrderHTTP
	InventoryHandler *InventoryHTTP
	SearchHandler    *SearchHTTP
	Auth             *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/refresh", d.AuthHandler.Refresh)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	if d.SearchHandler != nil && d.SearchHandler.ES != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	cart := v1.Group("/cart", d.Auth.ResolveOwner)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/items", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:productID", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	v1.POST("/checkout", d.OrderHandler.Checkout, d.Auth.ResolveOwner)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.PUT("/products/:id/stock", d.InventoryHandler.SetStock)
	admin.PATCH("/products/:id/stock", d.InventoryHandler.AdjustStock)
	admin.GET("/inventory/low-stock", d.InventoryHandler.LowStock)
	admin.GET("/inventory/summary", d.InventoryHandler.Summary)
	admin.GET("/inventory/movements", d.InventoryHandler.Movements)

	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
