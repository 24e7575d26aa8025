package enums

import "fmt"

// PromotionKind selects which discount field of a promotion is meaningful.
type PromotionKind string

const (
	PromotionPercentage  PromotionKind = "percentage"
	PromotionFixedAmount PromotionKind = "fixed_amount"
	PromotionBundle      PromotionKind = "bundle"
)

var validPromotionKinds = []PromotionKind{
	PromotionPercentage,
	PromotionFixedAmount,
	PromotionBundle,
}

// String implements fmt.Stringer.
func (k PromotionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known PromotionKind.
func (k PromotionKind) IsValid() bool {
	for _, candidate := range validPromotionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePromotionKind converts raw input into a PromotionKind.
func ParsePromotionKind(value string) (PromotionKind, error) {
	for _, candidate := range validPromotionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion kind %q", value)
}
