package enums

import (
	"fmt"
	"strings"
)

// ItemCategory represents the closed set of catalog categories.
type ItemCategory string

const (
	ItemCategoryElectronics ItemCategory = "electronics"
	ItemCategoryFurniture   ItemCategory = "furniture"
	ItemCategoryClothing    ItemCategory = "clothing"
	ItemCategoryBooks       ItemCategory = "books"
	ItemCategoryToys        ItemCategory = "toys"
	ItemCategoryAppliances  ItemCategory = "appliances"
	ItemCategorySports      ItemCategory = "sports"
	ItemCategoryBeauty      ItemCategory = "beauty"
	ItemCategoryAccessories ItemCategory = "accessories"
	ItemCategoryHomeDecor   ItemCategory = "homedecor"
	ItemCategoryOthers      ItemCategory = "others"
)

var validItemCategories = []ItemCategory{
	ItemCategoryElectronics,
	ItemCategoryFurniture,
	ItemCategoryClothing,
	ItemCategoryBooks,
	ItemCategoryToys,
	ItemCategoryAppliances,
	ItemCategorySports,
	ItemCategoryBeauty,
	ItemCategoryAccessories,
	ItemCategoryHomeDecor,
	ItemCategoryOthers,
}

var itemCodePrefixes = map[ItemCategory]string{
	ItemCategoryElectronics: "EL",
	ItemCategoryFurniture:   "FU",
	ItemCategoryClothing:    "CL",
	ItemCategoryBooks:       "BO",
	ItemCategoryToys:        "TO",
	ItemCategoryAppliances:  "AP",
	ItemCategorySports:      "SP",
	ItemCategoryBeauty:      "BE",
	ItemCategoryAccessories: "AC",
	ItemCategoryHomeDecor:   "HD",
	ItemCategoryOthers:      "OT",
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// CodePrefix returns the two-letter item-code prefix for the category.
// Categories without a mapped prefix fall back to their own first two
// letters, uppercased.
func (c ItemCategory) CodePrefix() string {
	if prefix, ok := itemCodePrefixes[c]; ok {
		return prefix
	}
	value := string(c)
	if len(value) >= 2 {
		return strings.ToUpper(value[:2])
	}
	return strings.ToUpper(value)
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

// ItemCategories returns the closed set of categories.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}
