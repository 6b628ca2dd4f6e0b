package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/enums"
)

// CartLine is one product entry in a buyer's cart. The product reference is
// the (category, model_no) key, re-resolved against the catalog on every
// read rather than cached.
type CartLine struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	CartID    string                `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_lines_identity,priority:1;index:idx_cart_lines_cart_id"`
	Category  enums.ProductCategory `gorm:"column:category;not null;uniqueIndex:idx_cart_lines_identity,priority:2"`
	ModelNo   string                `gorm:"column:model_no;not null;uniqueIndex:idx_cart_lines_identity,priority:3"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the row identity when the caller did not.
func (l *CartLine) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
