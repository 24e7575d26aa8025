package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/internal/cart/conditions"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/enums"
)

// LineItem is one cart row, keyed by (ItemID, Origin). A dish may exist as a
// paid line and a promotional line at the same time; the two never merge.
type LineItem struct {
	ItemID    int64            `json:"item_id"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Quantity  int              `json:"quantity"`
	Origin    enums.ItemOrigin `json:"origin"`
}

// CartState is the full observable cart. Derived fields are committed by the
// recalculation pass; nothing outside the engine mutates them.
type CartState struct {
	Items            []LineItem            `json:"items"`
	AppliedPromotion *promotions.Promotion `json:"applied_promotion,omitempty"`
	TotalItems       int                   `json:"total_items"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	DiscountAmount   decimal.Decimal       `json:"discount_amount"`
	Total            decimal.Decimal       `json:"total"`
}

// NewCartState returns the zero cart.
func NewCartState() CartState {
	return CartState{
		Items:          []LineItem{},
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}
}

// Clone returns a deep copy safe to hand to callers.
func (s CartState) Clone() CartState {
	out := s
	out.Items = make([]LineItem, len(s.Items))
	copy(out.Items, s.Items)
	if s.AppliedPromotion != nil {
		promo := *s.AppliedPromotion
		if s.AppliedPromotion.Conditions != nil {
			promo.Conditions = make(promotions.Conditions, len(s.AppliedPromotion.Conditions))
			copy(promo.Conditions, s.AppliedPromotion.Conditions)
		}
		out.AppliedPromotion = &promo
	}
	return out
}

// Snapshot projects the cart into the shape validators consume. It is rebuilt
// on every call so validators always see live state.
func (s CartState) Snapshot() conditions.OrderSnapshot {
	items := make([]conditions.OrderItem, 0, len(s.Items))
	for _, line := range s.Items {
		items = append(items, conditions.OrderItem{
			ID:       line.ItemID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}
	return conditions.OrderSnapshot{Items: items, Total: paidSubtotal(s.Items)}
}

// findLine returns the index of the (id, origin) line, or -1.
func findLine(items []LineItem, id int64, origin enums.ItemOrigin) int {
	for i, line := range items {
		if line.ItemID == id && line.Origin == origin {
			return i
		}
	}
	return -1
}

// paidSubtotal sums unitPrice×quantity over paid lines, rounded to 2 places.
// Promotional lines are free and contribute nothing.
func paidSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range items {
		if line.Origin != enums.OriginPaid {
			continue
		}
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.Round(2)
}

// countItems sums quantities across all lines regardless of origin.
func countItems(items []LineItem) int {
	count := 0
	for _, line := range items {
		count += line.Quantity
	}
	return count
}

// hasPaidItem reports whether any paid line survives.
func hasPaidItem(items []LineItem) bool {
	for _, line := range items {
		if line.Origin == enums.OriginPaid {
			return true
		}
	}
	return false
}
