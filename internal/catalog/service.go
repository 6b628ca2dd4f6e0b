package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations: lookups, stock adjustment, and the
// idempotent seed bootstrap.
type Service interface {
	FindByModelNo(ctx context.Context, category enums.ProductCategory, modelNo string) (*models.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error)
	AdjustStock(ctx context.Context, category enums.ProductCategory, modelNo string, delta int) (*models.Product, error)
	Bootstrap(ctx context.Context, seeds []models.Product) (int, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) FindByModelNo(ctx context.Context, category enums.ProductCategory, modelNo string) (*models.Product, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory,
			fmt.Sprintf("invalid product category %q", category))
	}
	product, err := s.repo.FindByModelNo(ctx, category, modelNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(category, modelNo)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory,
			fmt.Sprintf("invalid product category %q", category))
	}
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return rows, nil
}

// AdjustStock applies delta to the product's stock level. A delta that would
// drive the level negative is rejected without touching the row.
func (s *service) AdjustStock(ctx context.Context, category enums.ProductCategory, modelNo string, delta int) (*models.Product, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory,
			fmt.Sprintf("invalid product category %q", category))
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindByModelNo(ctx, category, modelNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(category, modelNo)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		next := product.StockLevel + delta
		if next < 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidQuantity,
				fmt.Sprintf("stock for %s cannot drop below zero (current %d, delta %d)",
					product.DisplayName(), product.StockLevel, delta)).
				WithDetails(map[string]any{"stock_level": product.StockLevel, "delta": delta})
		}

		if err := repo.SetStockLevel(ctx, product.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock level")
		}
		product.StockLevel = next
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Bootstrap inserts seed products that do not yet exist, keyed by
// (category, model_no). Re-running with the same list is a no-op. Returns the
// number of rows inserted.
func (s *service) Bootstrap(ctx context.Context, seeds []models.Product) (int, error) {
	inserted := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		for i := range seeds {
			seed := seeds[i]
			if !seed.Category.IsValid() {
				return pkgerrors.New(pkgerrors.CodeInvalidCategory,
					fmt.Sprintf("seed product %s has invalid category %q", seed.ModelNo, seed.Category))
			}
			if !seed.WarehouseLocation.IsValid() {
				return pkgerrors.New(pkgerrors.CodeInvalidLocation,
					fmt.Sprintf("seed product %s has invalid warehouse location %q", seed.ModelNo, seed.WarehouseLocation))
			}

			_, err := repo.FindByModelNo(ctx, seed.Category, seed.ModelNo)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing product")
			}

			if err := repo.Create(ctx, &seed); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting seed product")
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func notFound(category enums.ProductCategory, modelNo string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound,
		fmt.Sprintf("product %s (%s) does not exist", modelNo, category.Label()))
}
