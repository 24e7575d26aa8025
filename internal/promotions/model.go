package promotions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/pkg/enums"
)

// Promotion is the persisted promotion definition. Exactly one of
// PercentOff/FlatAmount/BundleID is meaningful, selected by Kind.
type Promotion struct {
	ID                int64                   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name              string                  `gorm:"column:name;not null" json:"name"`
	Code              string                  `gorm:"column:code;not null;uniqueIndex:promotions_code_key" json:"code"`
	Kind              enums.PromotionKind     `gorm:"column:kind;not null" json:"kind"`
	PercentOff        *int                    `gorm:"column:percent_off" json:"percent_off,omitempty"`
	FlatAmount        *decimal.Decimal        `gorm:"column:flat_amount;type:numeric(12,2)" json:"flat_amount,omitempty"`
	BundleID          *int64                  `gorm:"column:bundle_id" json:"bundle_id,omitempty"`
	Active            bool                    `gorm:"column:active;not null;default:true" json:"active"`
	ValidFrom         time.Time               `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidTo           *time.Time              `gorm:"column:valid_to" json:"valid_to,omitempty"`
	ApplicationMethod enums.ApplicationMethod `gorm:"column:application_method;not null;default:'code'" json:"application_method"`
	Conditions        Conditions              `gorm:"column:conditions;type:jsonb" json:"conditions,omitempty"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the gorm table.
func (Promotion) TableName() string { return "promotions" }

// CanApply reports whether the promotion's temporal window includes now.
// The same check gates the initial apply and every later recalculation.
func (p Promotion) CanApply(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.ValidFrom.After(now) {
		return false
	}
	if p.ValidTo != nil && p.ValidTo.Before(now) {
		return false
	}
	return true
}

// Bundle groups reward items granted together by a bundle promotion.
type Bundle struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the gorm table.
func (Bundle) TableName() string { return "bundles" }

// BundleItem is one reward row of a bundle definition.
type BundleItem struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BundleID int64  `gorm:"column:bundle_id;not null" json:"bundle_id"`
	ItemID   int64  `gorm:"column:item_id;not null" json:"item_id"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Quantity int    `gorm:"column:quantity;not null" json:"quantity"`
}

// TableName sets the gorm table.
func (BundleItem) TableName() string { return "bundle_items" }

// BundleLine is a resolved reward item handed to the cart engine.
type BundleLine struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
