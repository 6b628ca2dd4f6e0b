package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/enums"
	"github.com/fanlingworks/furniture-pos/pkg/types"
)

// Product is the unified catalog record. The three furniture kinds share one
// table, keyed by (category, model_no), with the kind-specific attributes in
// a JSON payload.
type Product struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Category          enums.ProductCategory   `gorm:"column:category;not null;uniqueIndex:idx_products_category_model_no,priority:1"`
	ModelNo           string                  `gorm:"column:model_no;not null;uniqueIndex:idx_products_category_model_no,priority:2"`
	CategoryLabel     string                  `gorm:"column:category_label;not null"`
	WarehouseLocation enums.WarehouseLocation `gorm:"column:warehouse_location;not null"`
	StockLevel        int                     `gorm:"column:stock_level;not null;default:0"`
	Price             decimal.Decimal         `gorm:"column:price;type:numeric(10,2);not null"`
	Material          string                  `gorm:"column:material;not null"`
	WidthCM           float64                 `gorm:"column:width_cm;not null"`
	HeightCM          float64                 `gorm:"column:height_cm;not null"`
	DepthCM           float64                 `gorm:"column:depth_cm;not null"`
	Attributes        types.ProductAttributes `gorm:"column:attributes;serializer:json"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the row identity when the caller did not.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DisplayName is the "<Category> <model_no>" form used in terminal output
// and error messages.
func (p *Product) DisplayName() string {
	return p.Category.Label() + " " + p.ModelNo
}
