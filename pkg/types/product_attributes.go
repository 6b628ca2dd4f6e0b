package types

import "github.com/fanlingworks/furniture-pos/pkg/enums"

// ChairAttributes holds the chair-specific physical attributes.
type ChairAttributes struct {
	HasArmrests   bool    `json:"has_armrests"`
	MaxWeightKG   float64 `json:"max_weight"`
	HasSittingPad bool    `json:"has_sitting_pad"`
}

// BedAttributes holds the bed-specific physical attributes.
type BedAttributes struct {
	BedSize      string `json:"bed_size"`
	HasHeadboard bool   `json:"has_headboard"`
}

// BookshelfAttributes holds the bookshelf-specific physical attributes.
type BookshelfAttributes struct {
	ShelfLayers int     `json:"shelf_layers"`
	MaxWeightKG float64 `json:"maximum_weight"`
}

// ProductAttributes is the per-category payload of a product. Exactly one
// member is populated, and it must match the product's category.
type ProductAttributes struct {
	Chair     *ChairAttributes     `json:"chair,omitempty"`
	Bed       *BedAttributes       `json:"bed,omitempty"`
	Bookshelf *BookshelfAttributes `json:"bookshelf,omitempty"`
}

// MatchesCategory reports whether the populated payload member agrees with
// the given category.
func (a ProductAttributes) MatchesCategory(category enums.ProductCategory) bool {
	switch category {
	case enums.ProductCategoryChair:
		return a.Chair != nil && a.Bed == nil && a.Bookshelf == nil
	case enums.ProductCategoryBed:
		return a.Bed != nil && a.Chair == nil && a.Bookshelf == nil
	case enums.ProductCategoryBookshelf:
		return a.Bookshelf != nil && a.Chair == nil && a.Bed == nil
	}
	return false
}
