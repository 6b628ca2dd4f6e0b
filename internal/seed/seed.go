package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
	"github.com/fanlingworks/furniture-pos/pkg/types"
)

//go:embed products.json
var productsJSON []byte

// entry is the raw shape of one seed product before validation.
type entry struct {
	Category          string                     `json:"category" validate:"required"`
	ModelNo           string                     `json:"model_no" validate:"required"`
	CategoryLabel     string                     `json:"category_label" validate:"required"`
	WarehouseLocation string                     `json:"warehouse_location" validate:"required"`
	StockLevel        int                        `json:"stock_level" validate:"gte=0"`
	Price             decimal.Decimal            `json:"price"`
	Material          string                     `json:"material" validate:"required"`
	WidthCM           float64                    `json:"width_cm" validate:"gte=0"`
	HeightCM          float64                    `json:"height_cm" validate:"gte=0"`
	DepthCM           float64                    `json:"depth_cm" validate:"gte=0"`
	Chair             *types.ChairAttributes     `json:"chair,omitempty"`
	Bed               *types.BedAttributes       `json:"bed,omitempty"`
	Bookshelf         *types.BookshelfAttributes `json:"bookshelf,omitempty"`
}

// Products returns the fixed initial product list, validated and converted to
// catalog rows. The list itself is embedded in the binary.
func Products() ([]models.Product, error) {
	return parse(productsJSON)
}

func parse(raw []byte) ([]models.Product, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing seed products: %w", err)
	}

	validate := validator.New()
	out := make([]models.Product, 0, len(entries))
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, e.ModelNo, err)
		}

		category, err := enums.ParseProductCategory(e.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory,
				fmt.Sprintf("seed product %s has invalid category %q", e.ModelNo, e.Category))
		}
		location, err := enums.ParseWarehouseLocation(e.WarehouseLocation)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidLocation,
				fmt.Sprintf("seed product %s has invalid warehouse location %q", e.ModelNo, e.WarehouseLocation))
		}
		if e.Price.IsNegative() {
			return nil, fmt.Errorf("seed product %s has negative price %s", e.ModelNo, e.Price)
		}

		attrs := types.ProductAttributes{Chair: e.Chair, Bed: e.Bed, Bookshelf: e.Bookshelf}
		if !attrs.MatchesCategory(category) {
			return nil, fmt.Errorf("seed product %s: attribute payload does not match category %s", e.ModelNo, category)
		}

		out = append(out, models.Product{
			Category:          category,
			ModelNo:           e.ModelNo,
			CategoryLabel:     e.CategoryLabel,
			WarehouseLocation: location,
			StockLevel:        e.StockLevel,
			Price:             e.Price,
			Material:          e.Material,
			WidthCM:           e.WidthCM,
			HeightCM:          e.HeightCM,
			DepthCM:           e.DepthCM,
			Attributes:        attrs,
		})
	}
	return out, nil
}
