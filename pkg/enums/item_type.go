package enums

import "fmt"

// ItemType distinguishes second-hand listings from brand-new stock.
type ItemType string

const (
	ItemTypePreloved ItemType = "preloved"
	ItemTypeBrandNew ItemType = "brandnew"
)

var validItemTypes = []ItemType{
	ItemTypePreloved,
	ItemTypeBrandNew,
}

// String implements fmt.Stringer.
func (t ItemType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ItemType.
func (t ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
