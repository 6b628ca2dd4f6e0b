package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/internal/cart"
	"github.com/fanlingworks/furniture-pos/internal/catalog"
	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a buyer's cart into a committed stock reduction. The whole
// operation runs in one transaction: every line is validated against current
// stock before anything is mutated, and rejection leaves all state untouched.
type Service interface {
	Execute(ctx context.Context, cartID string) (*Result, error)
}

// Result reports the outcome of a checkout attempt.
type Result struct {
	CartID string
	Status enums.CheckoutStatus

	// Committed lines, priced at commit time. Set when Status is committed.
	Committed []CommittedLine
	Total     decimal.Decimal

	// Unavailable lines with available vs requested. Set when Status is
	// rejected.
	Unavailable []UnavailableLine

	// Integrity aggregates warnings for lines whose product reference no
	// longer resolves. Such lines never block checkout: they are excluded
	// from validation and removed with the rest of the cart on commit.
	Integrity error
}

// CommittedLine is one successfully committed cart line.
type CommittedLine struct {
	Category       enums.ProductCategory
	ModelNo        string
	Quantity       int
	UnitPrice      decimal.Decimal
	LineTotal      decimal.Decimal
	RemainingStock int
}

// UnavailableLine is a line that failed stock validation.
type UnavailableLine struct {
	Category  enums.ProductCategory
	ModelNo   string
	Requested int
	Available int
}

// IntegrityWarnings unpacks the aggregated unlinked-line warnings.
func (r *Result) IntegrityWarnings() []error {
	return multierr.Errors(r.Integrity)
}

type service struct {
	tx          txRunner
	cartRepo    *cart.Repository
	catalogRepo *catalog.Repository
}

// NewService builds the checkout service.
func NewService(tx txRunner, cartRepo *cart.Repository, catalogRepo *catalog.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{tx: tx, cartRepo: cartRepo, catalogRepo: catalogRepo}, nil
}

func (s *service) Execute(ctx context.Context, cartID string) (*Result, error) {
	result := &Result{CartID: cartID, Total: decimal.Zero}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)

		lines, err := cartRepo.ListLines(ctx, cartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart lines")
		}
		if len(lines) == 0 {
			result.Status = enums.CheckoutStatusEmpty
			return nil
		}

		// Validation pass: resolve every line and collect every shortage
		// before touching anything.
		resolved := make(map[uuid.UUID]*models.Product, len(lines))
		for _, line := range lines {
			product, err := catalogRepo.FindByModelNo(ctx, line.Category, line.ModelNo)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Integrity = multierr.Append(result.Integrity,
						pkgerrors.New(pkgerrors.CodeDataIntegrity,
							fmt.Sprintf("cart line %s %s has no linked product", line.Category.Label(), line.ModelNo)))
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart line product")
			}
			resolved[line.ID] = product

			if product.StockLevel < line.Quantity {
				result.Unavailable = append(result.Unavailable, UnavailableLine{
					Category:  line.Category,
					ModelNo:   line.ModelNo,
					Requested: line.Quantity,
					Available: product.StockLevel,
				})
			}
		}

		if len(result.Unavailable) > 0 {
			result.Status = enums.CheckoutStatusRejected
			return nil
		}

		// Commit pass: decrement every resolvable line's product, then clear
		// the cart, all inside the same transaction.
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			lineIDs = append(lineIDs, line.ID)

			product, ok := resolved[line.ID]
			if !ok {
				continue
			}

			remaining := product.StockLevel - line.Quantity
			if err := catalogRepo.SetStockLevel(ctx, product.ID, remaining); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			result.Committed = append(result.Committed, CommittedLine{
				Category:       line.Category,
				ModelNo:        line.ModelNo,
				Quantity:       line.Quantity,
				UnitPrice:      product.Price,
				LineTotal:      lineTotal,
				RemainingStock: remaining,
			})
			result.Total = result.Total.Add(lineTotal)
		}

		if err := cartRepo.DeleteLines(ctx, cartID, lineIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		result.Status = enums.CheckoutStatusCommitted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
