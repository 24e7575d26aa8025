package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/pkg/enums"
)

// Order is a submitted cart, frozen with the totals the cart carried at
// checkout.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CartID         uuid.UUID         `gorm:"column:cart_id;type:uuid;not null" json:"cart_id"`
	PromotionID    *int64            `gorm:"column:promotion_id" json:"promotion_id,omitempty"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null" json:"discount_amount"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'placed'" json:"status"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the gorm table.
func (Order) TableName() string { return "orders" }

// OrderItem is one frozen cart line on an order.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ItemID    int64           `gorm:"column:item_id;not null" json:"item_id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Origin    enums.ItemOrigin `gorm:"column:origin;not null;default:'paid'" json:"origin"`
}

// TableName sets the gorm table.
func (OrderItem) TableName() string { return "order_items" }
