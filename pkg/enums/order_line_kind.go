package enums

import "fmt"

// OrderLineKind tags the shape of an order line, fixed at order creation.
// A reference line points at a live catalog item; a snapshot line carries
// frozen item details and no catalog reference.
type OrderLineKind string

const (
	OrderLineKindReference OrderLineKind = "reference"
	OrderLineKindSnapshot  OrderLineKind = "snapshot"
)

var validOrderLineKinds = []OrderLineKind{
	OrderLineKindReference,
	OrderLineKindSnapshot,
}

// String implements fmt.Stringer.
func (k OrderLineKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known OrderLineKind.
func (k OrderLineKind) IsValid() bool {
	for _, candidate := range validOrderLineKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOrderLineKind converts raw input into an OrderLineKind.
func ParseOrderLineKind(value string) (OrderLineKind, error) {
	for _, candidate := range validOrderLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order line kind %q", value)
}
