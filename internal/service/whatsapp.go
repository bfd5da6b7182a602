package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/motorepuestos/shop/internal/models"
)

// WhatsApp builds wa.me deep links carrying pre-filled store messages.
// It never sends anything itself.
type WhatsApp struct {
	Number    string
	StoreName string
}

func (w WhatsApp) BuildMessageLink(text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.Number, url.QueryEscape(text))
}

func (w WhatsApp) ProductInquiry(productName, sku string) string {
	return fmt.Sprintf(
		"Hola %s, estoy interesado en el producto: *%s* (SKU: %s). ¿Podrían darme más información sobre disponibilidad y precio?",
		w.StoreName, productName, sku,
	)
}

func (w WhatsApp) SpecialOrderMessage(productName, details, customerName, phone, budget string) string {
	var b strings.Builder
	b.WriteString("*SOLICITUD DE PEDIDO ESPECIAL*\n\n")
	fmt.Fprintf(&b, "*Cliente:* %s\n", customerName)
	fmt.Fprintf(&b, "*Teléfono:* %s\n\n", phone)
	fmt.Fprintf(&b, "*Producto solicitado:* %s\n\n", productName)
	fmt.Fprintf(&b, "*Detalles:* %s\n\n", details)
	if budget != "" {
		fmt.Fprintf(&b, "*Presupuesto aproximado:* %s\n\n", budget)
	}
	fmt.Fprintf(&b, "Gracias por contactar a %s. Revisaremos su solicitud y le responderemos a la brevedad.", w.StoreName)
	return b.String()
}

func (w WhatsApp) OrderSummary(order *models.Order, items []models.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*NUEVO PEDIDO %s*\n\n", order.ID)
	fmt.Fprintf(&b, "*Cliente:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Teléfono:* %s\n", order.CustomerPhone)
	if order.CustomerCity != "" {
		fmt.Fprintf(&b, "*Ciudad:* %s\n", order.CustomerCity)
	}
	b.WriteString("\n*Productos:*\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %dx %s (SKU: %s) = %s\n", it.Quantity, it.ProductName, it.ProductSKU, it.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*Total:* %s\n", order.TotalAmount.StringFixed(2))
	if order.Notes != "" {
		fmt.Fprintf(&b, "\n*Notas:* %s\n", order.Notes)
	}
	return b.String()
}
