package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the canonical furniture categories carried by the catalog.
type ProductCategory string

const (
	ProductCategoryChair     ProductCategory = "chair"
	ProductCategoryBed       ProductCategory = "bed"
	ProductCategoryBookshelf ProductCategory = "bookshelf"
)

var validProductCategories = []ProductCategory{
	ProductCategoryChair,
	ProductCategoryBed,
	ProductCategoryBookshelf,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// Label returns the user-facing name shown at the terminal.
func (c ProductCategory) Label() string {
	switch c {
	case ProductCategoryChair:
		return "Chair"
	case ProductCategoryBed:
		return "Bed"
	case ProductCategoryBookshelf:
		return "Bookshelf"
	}
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory. Matching is
// case-insensitive so terminal input like "Chair" resolves.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories returns the categories in menu order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}
