package enums

import "fmt"

// ApplicationMethod records how a promotion reaches a cart: typed in as a
// coupon code or applied automatically as a discount.
type ApplicationMethod string

const (
	ApplicationCode ApplicationMethod = "code"
	ApplicationAuto ApplicationMethod = "auto_discount"
)

var validApplicationMethods = []ApplicationMethod{
	ApplicationCode,
	ApplicationAuto,
}

// String implements fmt.Stringer.
func (a ApplicationMethod) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ApplicationMethod.
func (a ApplicationMethod) IsValid() bool {
	for _, candidate := range validApplicationMethods {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseApplicationMethod converts raw input into an ApplicationMethod.
func ParseApplicationMethod(value string) (ApplicationMethod, error) {
	for _, candidate := range validApplicationMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application method %q", value)
}
