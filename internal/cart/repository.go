package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
)

// Repository manages persistent cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindLine loads the line keyed by (cart_id, category, model_no). Returns
// gorm.ErrRecordNotFound when absent.
func (r *Repository) FindLine(ctx context.Context, cartID string, category enums.ProductCategory, modelNo string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		First(&line, "cart_id = ? AND category = ? AND model_no = ?", cartID, category, modelNo).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ListLines returns every line in the cart, oldest first.
func (r *Repository) ListLines(ctx context.Context, cartID string) ([]models.CartLine, error) {
	var rows []models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("rowid ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertLine merges quantity into an existing line or creates a new one.
// At most one line ever exists per (cart_id, category, model_no).
func (r *Repository) UpsertLine(ctx context.Context, cartID string, category enums.ProductCategory, modelNo string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity,
			fmt.Sprintf("quantity must be at least 1, got %d", quantity)).
			WithDetails(map[string]any{"quantity": quantity})
	}

	existing, err := r.FindLine(ctx, cartID, category, modelNo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := r.db.WithContext(ctx).
			Model(&models.CartLine{}).
			Where("id = ?", existing.ID).
			Update("quantity", existing.Quantity).
			Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	line := &models.CartLine{
		CartID:   cartID,
		Category: category,
		ModelNo:  modelNo,
		Quantity: quantity,
	}
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteLines removes the given lines. Used by checkout as part of its commit.
func (r *Repository) DeleteLines(ctx context.Context, cartID string, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, lineIDs).
		Delete(&models.CartLine{}).
		Error
}
