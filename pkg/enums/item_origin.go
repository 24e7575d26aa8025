package enums

import "fmt"

// ItemOrigin distinguishes customer-paid cart lines from promotion-granted
// free lines. A product may exist as both at once; the two are never merged.
type ItemOrigin string

const (
	OriginPaid        ItemOrigin = "paid"
	OriginPromotional ItemOrigin = "promotional"
)

var validItemOrigins = []ItemOrigin{
	OriginPaid,
	OriginPromotional,
}

// String implements fmt.Stringer.
func (o ItemOrigin) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ItemOrigin.
func (o ItemOrigin) IsValid() bool {
	for _, candidate := range validItemOrigins {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseItemOrigin converts raw input into an ItemOrigin. Empty input
// defaults to the paid origin, matching the mutation API contract.
func ParseItemOrigin(value string) (ItemOrigin, error) {
	if value == "" {
		return OriginPaid, nil
	}
	for _, candidate := range validItemOrigins {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item origin %q", value)
}
