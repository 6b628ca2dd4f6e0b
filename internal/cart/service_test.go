package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/internal/catalog"
	"github.com/fanlingworks/furniture-pos/pkg/db/models"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
	"github.com/fanlingworks/furniture-pos/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func mustCreateProduct(t *testing.T, db *gorm.DB, category enums.ProductCategory, modelNo string, stock int, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Category:          category,
		ModelNo:           modelNo,
		CategoryLabel:     category.Label(),
		WarehouseLocation: enums.WarehouseLocationFanLing,
		StockLevel:        stock,
		Price:             decimal.NewFromFloat(price),
		Material:          "Wood",
	}
	switch category {
	case enums.ProductCategoryChair:
		product.Attributes = types.ProductAttributes{Chair: &types.ChairAttributes{MaxWeightKG: 120}}
	case enums.ProductCategoryBed:
		product.Attributes = types.ProductAttributes{Bed: &types.BedAttributes{BedSize: "Double"}}
	case enums.ProductCategoryBookshelf:
		product.Attributes = types.ProductAttributes{Bookshelf: &types.BookshelfAttributes{ShelfLayers: 5}}
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, catalog.NewRepository(db), testTxRunner{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, db
}

func TestAddItemMergesIntoOneLine(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	if _, err := svc.AddItem(ctx, "Simon", "Chair", "CH-001", 10); err != nil {
		t.Fatalf("first add: %v", err)
	}
	line, err := svc.AddItem(ctx, "Simon", "Chair", "CH-001", 5)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if line.Quantity != 15 {
		t.Fatalf("expected merged quantity 15, got %d", line.Quantity)
	}

	lines, err := repo.ListLines(ctx, "Simon")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(lines))
	}

	// Adding to a cart must never touch stock.
	var product models.Product
	if err := db.First(&product, "model_no = ?", "CH-001").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.StockLevel != 50 {
		t.Fatalf("stock must stay 50 until checkout, got %d", product.StockLevel)
	}
}

func TestAddItemRejectsInvalidCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "Simon", "Wardrobe", "WD-001", 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "Simon", "Chair", "CH-404", 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryBed, "BD-001", 10, 1999)

	_, err := svc.AddItem(ctx, "Peter", "Bed", "BD-001", 100)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok || details["available"] != 10 {
		t.Fatalf("expected available=10 in details, got %v", pkgerrors.As(err).Details())
	}

	// Rejected before line creation: cart unchanged.
	lines, err := repo.ListLines(ctx, "Peter")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, db := newTestService(t)
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	_, err := svc.AddItem(context.Background(), "Simon", "Chair", "CH-001", 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestAddItemDefersMergedValidationToCheckout(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	if _, err := svc.AddItem(ctx, "Simon", "Chair", "CH-001", 30); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Combined quantity 60 exceeds stock 50 but each request alone fits;
	// the merged total is only validated at checkout.
	line, err := svc.AddItem(ctx, "Simon", "Chair", "CH-001", 30)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if line.Quantity != 60 {
		t.Fatalf("expected merged quantity 60, got %d", line.Quantity)
	}
}

func TestAddItemIsCaseInsensitiveOnCategoryButNotCartID(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	if _, err := svc.AddItem(ctx, "Simon", "chair", "CH-001", 1); err != nil {
		t.Fatalf("lowercase category add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "simon", "Chair", "CH-001", 1); err != nil {
		t.Fatalf("second buyer add: %v", err)
	}

	simon, err := repo.ListLines(ctx, "Simon")
	if err != nil {
		t.Fatalf("list Simon: %v", err)
	}
	lower, err := repo.ListLines(ctx, "simon")
	if err != nil {
		t.Fatalf("list simon: %v", err)
	}
	if len(simon) != 1 || len(lower) != 1 {
		t.Fatalf("cart ids are case-sensitive, got %d and %d lines", len(simon), len(lower))
	}
}

func TestViewPricesAndFlagsUnlinkedLines(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	if _, err := svc.AddItem(ctx, "Simon", "Chair", "CH-001", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Orphan line referencing a product that never existed.
	if err := db.Create(&models.CartLine{
		CartID:   "Simon",
		Category: enums.ProductCategoryBed,
		ModelNo:  "BD-999",
		Quantity: 1,
	}).Error; err != nil {
		t.Fatalf("create orphan line: %v", err)
	}

	view, err := svc.View(ctx, "Simon")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("expected 2 view lines, got %d", len(view.Lines))
	}
	if view.Lines[0].Unlinked || view.Lines[0].Product == nil {
		t.Fatalf("expected first line linked")
	}
	if !view.Lines[1].Unlinked || view.Lines[1].Product != nil {
		t.Fatalf("expected second line unlinked")
	}
	if want := decimal.NewFromInt(598); !view.Total.Equal(want) {
		t.Fatalf("expected total %s (unlinked excluded), got %s", want, view.Total)
	}

	lines, err := repo.ListLines(ctx, "Simon")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("view must not delete lines, got %d", len(lines))
	}
}

func TestDeleteLinesScopedToCart(t *testing.T) {
	_, repo, db := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, db, enums.ProductCategoryChair, "CH-001", 50, 299)

	simonLine, err := repo.UpsertLine(ctx, "Simon", enums.ProductCategoryChair, "CH-001", 1)
	if err != nil {
		t.Fatalf("upsert simon: %v", err)
	}
	peterLine, err := repo.UpsertLine(ctx, "Peter", enums.ProductCategoryChair, "CH-001", 1)
	if err != nil {
		t.Fatalf("upsert peter: %v", err)
	}

	if err := repo.DeleteLines(ctx, "Simon", []uuid.UUID{simonLine.ID, peterLine.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.FindLine(ctx, "Peter", enums.ProductCategoryChair, "CH-001"); err != nil {
		t.Fatalf("peter's line must survive a delete scoped to simon: %v", err)
	}
	if _, err := repo.FindLine(ctx, "Simon", enums.ProductCategoryChair, "CH-001"); err == nil {
		t.Fatalf("simon's line should be gone")
	}
}
