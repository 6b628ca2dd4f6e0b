package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/internal/catalog"
	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service admits add-to-cart requests and renders cart views. Adding an item
// validates the requested quantity against live stock; merged line totals are
// only re-validated at checkout.
type Service interface {
	AddItem(ctx context.Context, cartID, productType, modelNo string, quantity int) (*models.CartLine, error)
	View(ctx context.Context, cartID string) (*View, error)
}

// View is a cart rendered for display: each line re-resolved against the
// catalog, priced, and totalled.
type View struct {
	CartID string
	Lines  []ViewLine
	Total  decimal.Decimal
}

// ViewLine pairs a cart line with its current catalog product. Product is nil
// and Unlinked true when the reference no longer resolves.
type ViewLine struct {
	Line      models.CartLine
	Product   *models.Product
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Unlinked  bool
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	tx          txRunner
}

// NewService constructs the cart service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, catalogRepo: catalogRepo, tx: tx}, nil
}

// AddItem validates and admits one add-to-cart request: category must parse,
// the product must exist, and the requested quantity must not exceed current
// stock. Carts do not reserve stock, so the check is against the live level.
func (s *service) AddItem(ctx context.Context, cartID, productType, modelNo string, quantity int) (*models.CartLine, error) {
	category, err := enums.ParseProductCategory(productType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCategory,
			fmt.Sprintf("invalid product type %q", productType))
	}

	var line *models.CartLine
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		cartRepo := s.repo.WithTx(tx)

		product, err := catalogRepo.FindByModelNo(ctx, category, modelNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("product %s (%s) does not exist", modelNo, category.Label()))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving product")
		}

		if quantity > product.StockLevel {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s. Available: %d", product.DisplayName(), product.StockLevel)).
				WithDetails(map[string]any{"available": product.StockLevel, "requested": quantity})
		}

		line, err = cartRepo.UpsertLine(ctx, cartID, category, modelNo, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// View lists the cart with live prices. Lines whose product no longer
// resolves are flagged unlinked and excluded from the total.
func (s *service) View(ctx context.Context, cartID string) (*View, error) {
	lines, err := s.repo.ListLines(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart lines")
	}

	view := &View{CartID: cartID, Total: decimal.Zero}
	for _, line := range lines {
		viewLine := ViewLine{Line: line}

		product, err := s.catalogRepo.FindByModelNo(ctx, line.Category, line.ModelNo)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart line product")
			}
			viewLine.Unlinked = true
			view.Lines = append(view.Lines, viewLine)
			continue
		}

		viewLine.Product = product
		viewLine.UnitPrice = product.Price
		viewLine.LineTotal = product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Total = view.Total.Add(viewLine.LineTotal)
		view.Lines = append(view.Lines, viewLine)
	}
	return view, nil
}
