package conditions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Built-in condition keys.
const (
	KeyRequiredItemIDs = "required_item_ids"
	KeyMinOrderValue   = "min_order_value"
)

// RequiredItemIDs checks that every listed item id is present in the cart,
// regardless of origin or quantity.
func RequiredItemIDs(_ context.Context, value any, order OrderSnapshot) error {
	raw, ok := value.([]any)
	if !ok {
		return errors.New("must be an array of item ids")
	}

	present := make(map[int64]struct{}, len(order.Items))
	for _, item := range order.Items {
		present[item.ID] = struct{}{}
	}

	var missing []string
	for _, entry := range raw {
		id, ok := coerceItemID(entry)
		if !ok {
			return errors.New("must be an array of item ids")
		}
		if _, found := present[id]; !found {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required items: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MinOrderValue checks the order total against a numeric minimum. The
// snapshot total is preferred; when it is absent the items are summed.
func MinOrderValue(_ context.Context, value any, order OrderSnapshot) error {
	minimum, ok := coerceAmount(value)
	if !ok {
		return errors.New("must be a number")
	}

	total := order.Total
	if total.IsZero() {
		for _, item := range order.Items {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	if total.LessThan(minimum) {
		return fmt.Errorf("requires a minimum order of %s, current total is %s",
			minimum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

func coerceItemID(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func coerceAmount(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Decimal{}, false
	}
}
