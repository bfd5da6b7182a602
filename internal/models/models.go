package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryMotor        Category = "motor"
	CategoryFrenos       Category = "frenos"
	CategoryElectricos   Category = "electricos"
	CategorySuspension   Category = "suspension"
	CategoryCarroceria   Category = "carroceria"
	CategoryAceites      Category = "aceites"
	CategoryFiltros      Category = "filtros"
	CategoryTransmision  Category = "transmision"
	CategoryLlantas      Category = "llantas"
	CategoryAccesorios   Category = "accesorios"
)

var CategoryNames = map[Category]string{
	CategoryMotor:       "Motor",
	CategoryFrenos:      "Frenos",
	CategoryElectricos:  "Eléctricos",
	CategorySuspension:  "Suspensión",
	CategoryCarroceria:  "Carrocería",
	CategoryAceites:     "Aceites",
	CategoryFiltros:     "Filtros",
	CategoryTransmision: "Transmisión",
	CategoryLlantas:     "Llantas",
	CategoryAccesorios:  "Accesorios",
}

func (c Category) Valid() bool {
	_, ok := CategoryNames[c]
	return ok
}

type Product struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"      json:"id"`
	Name             string              `gorm:"not null"                  json:"name"`
	SKU              string              `gorm:"uniqueIndex;not null"      json:"sku"`
	Price            decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)"        json:"discount_price"`
	Brand            string              `gorm:"index"                     json:"brand"`
	Category         Category            `gorm:"index;not null"            json:"category"`
	CompatibleModels pq.StringArray      `gorm:"type:text[]"               json:"compatible_models"`
	Description      string              `gorm:"type:text"                 json:"description"`
	Features         pq.StringArray      `gorm:"type:text[]"               json:"features"`
	Images           pq.StringArray      `gorm:"type:text[]"               json:"images"`
	Stock            int                 `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsNew            bool                `gorm:"default:false"             json:"is_new"`
	IsSpecialOrder   bool                `gorm:"default:false"             json:"is_special_order"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice is the price a cart line snapshots at add time: the
// discount price when present and lower than the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.LessThan(p.Price) {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

type CartItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"                            json:"id"`
	OwnerKey     string          `gorm:"uniqueIndex:idx_owner_product;not null"          json:"-"`
	ProductID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_owner_product;not null" json:"product_id"`
	ProductName  string          `gorm:"not null"                                        json:"product_name"`
	ProductSKU   string          `gorm:"not null"                                        json:"product_sku"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"                     json:"product_price"`
	Quantity     int             `gorm:"default:1;check:quantity > 0"                    json:"quantity"`
	ProductImage string          `json:"product_image,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	CustomerName    string          `gorm:"not null"                    json:"customer_name"`
	CustomerEmail   string          `gorm:"not null"                    json:"customer_email"`
	CustomerPhone   string          `gorm:"not null"                    json:"customer_phone"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	CustomerCity    string          `json:"customer_city,omitempty"`
	Notes           string          `gorm:"type:text"                   json:"notes,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"index;not null"              json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"          json:"product_id"`
	ProductName string          `gorm:"not null"                    json:"product_name"`
	ProductSKU  string          `gorm:"not null"                    json:"product_sku"`
	Quantity    int             `gorm:"check:quantity > 0"          json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is the audit row written alongside every stock mutation.
type StockMovement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"     json:"id"`
	ProductID     uuid.UUID    `gorm:"type:uuid;index;not null" json:"product_id"`
	MovementType  MovementType `gorm:"not null"                 json:"movement_type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `gorm:"not null"                 json:"reason"`
	PreviousStock int          `json:"previous_stock"`
	NewStock      int          `json:"new_stock"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}

// All returns every entity the schema holds, in AutoMigrate order.
func All() []any {
	return []any{
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&StockMovement{},
		&User{},
		&RefreshToken{},
	}
}
