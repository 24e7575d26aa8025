package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is one orderable dish. OutOfStock items stay listed but cannot be
// added to a cart.
type MenuItem struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"column:name;not null" json:"name"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	OutOfStock bool            `gorm:"column:out_of_stock;not null;default:false" json:"out_of_stock"`
	Active     bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the gorm table.
func (MenuItem) TableName() string { return "menu_items" }
