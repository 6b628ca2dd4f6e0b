package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
)

// Repository provides persistence for catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByModelNo loads the product keyed by (category, model_no). Returns
// gorm.ErrRecordNotFound when absent; the service maps it to the domain error.
func (r *Repository) FindByModelNo(ctx context.Context, category enums.ProductCategory, modelNo string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "category = ? AND model_no = ?", category, modelNo).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCategory returns the category's products in insertion order (sqlite
// rowid order).
func (r *Repository) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("rowid ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// SetStockLevel writes the product's stock level.
func (r *Repository) SetStockLevel(ctx context.Context, id uuid.UUID, stockLevel int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_level", stockLevel).
		Error
}
