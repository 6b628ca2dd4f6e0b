package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fanlingworks/furniture-pos/internal/cart"
	"github.com/fanlingworks/furniture-pos/internal/catalog"
	"github.com/fanlingworks/furniture-pos/internal/checkout"
	"github.com/fanlingworks/furniture-pos/pkg/enums"
	pkgerrors "github.com/fanlingworks/furniture-pos/pkg/errors"
	"github.com/fanlingworks/furniture-pos/pkg/logger"
)

// Options wires the terminal driver to the core services.
type Options struct {
	Input    io.Reader
	Output   io.Writer
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkout.Service
	Logger   *logger.Logger
}

// Terminal drives the interactive menu loop. All input parsing and output
// formatting lives here; the services it calls never touch the terminal.
type Terminal struct {
	in       *bufio.Scanner
	out      io.Writer
	catalog  catalog.Service
	cart     cart.Service
	checkout checkout.Service
	logg     *logger.Logger
}

// New builds a terminal driver.
func New(opts Options) (*Terminal, error) {
	if opts.Input == nil || opts.Output == nil {
		return nil, fmt.Errorf("terminal input and output required")
	}
	if opts.Catalog == nil || opts.Cart == nil || opts.Checkout == nil {
		return nil, fmt.Errorf("catalog, cart, and checkout services required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Terminal{
		in:       bufio.NewScanner(opts.Input),
		out:      opts.Output,
		catalog:  opts.Catalog,
		cart:     opts.Cart,
		checkout: opts.Checkout,
		logg:     opts.Logger,
	}, nil
}

// Run executes the top-level menu until the operator exits or input ends.
func (t *Terminal) Run(ctx context.Context) error {
	for {
		line, ok := t.prompt("Enter 'In-House Use' to adjust stock levels, 'POS' to start shopping, or 'EXIT' to quit: ")
		if !ok {
			return nil
		}
		switch strings.ToUpper(line) {
		case "EXIT":
			return nil
		case "IN-HOUSE USE":
			t.runStockAdjust(ctx)
		case "POS":
			t.runPOS(ctx)
		default:
			t.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (t *Terminal) runStockAdjust(ctx context.Context) {
	for {
		category, ok := t.promptCategory("Select product type to adjust stock:", false)
		if !ok {
			return
		}
		if category == "" {
			continue
		}

		t.printCategoryListing(ctx, category)

		modelNo, ok := t.promptModelNo(ctx, category)
		if !ok {
			return
		}

		quantity, ok := t.promptInt("Enter quantity to add: ", func(n int) string {
			if n < 0 {
				return "Quantity must be a non-negative integer."
			}
			return ""
		})
		if !ok {
			return
		}

		product, err := t.catalog.AdjustStock(ctx, category, modelNo, quantity)
		if err != nil {
			t.renderError(err)
		} else {
			t.printf("Added %d to stock of %s %s. New stock level: %d\n",
				quantity, category.Label(), modelNo, product.StockLevel)
			t.logg.Info(t.logg.WithFields(ctx, map[string]any{
				"category": category.String(), "model_no": modelNo, "delta": quantity,
			}), "stock adjusted")
		}

		cont, ok := t.prompt("Adjust another item? (yes/no): ")
		if !ok || !strings.EqualFold(cont, "yes") {
			return
		}
	}
}

func (t *Terminal) runPOS(ctx context.Context) {
	for {
		buyer, ok := t.prompt("Enter buyer name (or 'END' to return to main menu): ")
		if !ok {
			return
		}
		if strings.EqualFold(buyer, "END") {
			return
		}
		if buyer == "" {
			t.printf("Buyer name cannot be empty.\n")
			continue
		}
		t.runBuyerMenu(t.logg.WithCartID(ctx, buyer), buyer)
	}
}

func (t *Terminal) runBuyerMenu(ctx context.Context, cartID string) {
	for {
		t.printf("\nOptions for %s:\n", cartID)
		t.printf("1. Add items to cart\n")
		t.printf("2. View cart\n")
		t.printf("3. Checkout\n")
		t.printf("4. Exit to buyer selection\n")

		option, ok := t.prompt("Enter choice (1-4): ")
		if !ok {
			return
		}
		switch option {
		case "1":
			t.runAddItems(ctx, cartID)
		case "2":
			t.renderCart(ctx, cartID)
		case "3":
			t.runCheckout(ctx, cartID)
		case "4":
			return
		default:
			t.printf("Invalid choice. Please try again.\n")
		}
	}
}

func (t *Terminal) runAddItems(ctx context.Context, cartID string) {
	for {
		category, ok := t.promptCategory("Select category to add to cart:", true)
		if !ok || category == "" {
			return
		}

		t.printCategoryListing(ctx, category)

		modelNo, ok := t.promptModelNo(ctx, category)
		if !ok {
			return
		}

		quantity, ok := t.promptInt("Enter quantity: ", func(n int) string {
			if n <= 0 {
				return "Quantity must be a positive integer."
			}
			return ""
		})
		if !ok {
			return
		}

		line, err := t.cart.AddItem(ctx, cartID, category.String(), modelNo, quantity)
		if err != nil {
			t.renderError(err)
			continue
		}
		t.printf("Added %d x %s %s to cart.\n", quantity, category.Label(), modelNo)
		t.logg.Info(t.logg.WithFields(ctx, map[string]any{
			"category": category.String(), "model_no": modelNo, "quantity": line.Quantity,
		}), "cart line upserted")
	}
}

func (t *Terminal) renderCart(ctx context.Context, cartID string) {
	view, err := t.cart.View(ctx, cartID)
	if err != nil {
		t.renderError(err)
		return
	}
	if len(view.Lines) == 0 {
		t.printf("No items found in cart for %s\n", cartID)
		return
	}

	t.printf("\nShopping Cart Contents for %s:\n", cartID)
	t.printf("%s\n", strings.Repeat("-", 56))
	t.printf("%-24s %-10s %-10s %-10s\n", "Item", "Quantity", "Unit", "Total")
	t.printf("%s\n", strings.Repeat("-", 56))
	for _, line := range view.Lines {
		name := line.Line.Category.Label() + " " + line.Line.ModelNo
		if line.Unlinked {
			t.printf("Warning: Product %s not found\n", name)
			continue
		}
		t.printf("%-24s %-10d $%-9s $%-9s\n",
			name, line.Line.Quantity,
			line.UnitPrice.StringFixed(2), line.LineTotal.StringFixed(2))
	}
	t.printf("%s\n", strings.Repeat("-", 56))
	t.printf("%-24s %-10s %-10s $%s\n", "Total", "", "", view.Total.StringFixed(2))
}

func (t *Terminal) runCheckout(ctx context.Context, cartID string) {
	result, err := t.checkout.Execute(ctx, cartID)
	if err != nil {
		t.renderError(err)
		return
	}

	for _, warning := range result.IntegrityWarnings() {
		t.printf("Warning: %s\n", warningMessage(warning))
		t.logg.Warn(ctx, warning.Error())
	}

	switch result.Status {
	case enums.CheckoutStatusEmpty:
		t.printf("Your cart is empty.\n")
	case enums.CheckoutStatusRejected:
		t.printf("The following items are unavailable or have insufficient stock:\n")
		for _, line := range result.Unavailable {
			t.printf("- %s %s (Available: %d, Requested: %d)\n",
				line.Category.Label(), line.ModelNo, line.Available, line.Requested)
		}
		t.printf("Please adjust your cart and try again.\n")
	case enums.CheckoutStatusCommitted:
		t.printf("Purchase successful! Your cart has been cleared. Total: $%s\n",
			result.Total.StringFixed(2))
		t.logg.Info(t.logg.WithFields(ctx, map[string]any{
			"lines": len(result.Committed), "total": result.Total.StringFixed(2),
		}), "checkout committed")
	}
}

func (t *Terminal) printCategoryListing(ctx context.Context, category enums.ProductCategory) {
	products, err := t.catalog.ListByCategory(ctx, category)
	if err != nil {
		t.renderError(err)
		return
	}
	t.printf("\nAvailable %ss:\n", category.Label())
	for _, p := range products {
		t.printf("Model: %s, Category: %s, Price: $%s, Stock: %d\n",
			p.ModelNo, p.CategoryLabel, p.Price.StringFixed(2), p.StockLevel)
	}
}

// promptCategory renders the numbered category menu. The done option, when
// enabled, lets the operator leave the loop; that case returns an empty
// category with ok=true handled by the caller.
func (t *Terminal) promptCategory(title string, withDone bool) (enums.ProductCategory, bool) {
	for {
		t.printf("\n%s\n", title)
		categories := enums.ProductCategories()
		for i, category := range categories {
			t.printf("%d. %s\n", i+1, category.Label())
		}
		limit := len(categories)
		if withDone {
			limit++
			t.printf("%d. DONE adding items\n", limit)
		}

		choice, ok := t.prompt(fmt.Sprintf("Enter choice (1-%d): ", limit))
		if !ok {
			return "", false
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > limit {
			t.printf("Invalid choice. Please try again.\n")
			continue
		}
		if withDone && n == limit {
			return "", true
		}
		return categories[n-1], true
	}
}

// promptModelNo re-prompts until the model number resolves in the category.
func (t *Terminal) promptModelNo(ctx context.Context, category enums.ProductCategory) (string, bool) {
	for {
		modelNo, ok := t.prompt(fmt.Sprintf("Enter model number for %s: ", category.Label()))
		if !ok {
			return "", false
		}
		if _, err := t.catalog.FindByModelNo(ctx, category, modelNo); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				t.printf("Invalid model number. Please try again.\n")
				continue
			}
			t.renderError(err)
			continue
		}
		return modelNo, true
	}
}

func (t *Terminal) promptInt(label string, check func(int) string) (int, bool) {
	for {
		line, ok := t.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			t.printf("Invalid quantity. Please enter a number.\n")
			continue
		}
		if msg := check(n); msg != "" {
			t.printf("%s\n", msg)
			continue
		}
		return n, true
	}
}

func (t *Terminal) prompt(label string) (string, bool) {
	t.printf("%s", label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// renderError turns a domain error into the operator-facing message, falling
// back to the code's public message when the error carries no detail.
func (t *Terminal) renderError(err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		t.printf("Error: %s\n", err)
		return
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	message := typed.Message()
	if message == "" || !meta.DetailsAllowed {
		message = meta.PublicMessage
	}
	if meta.Warning {
		t.printf("Warning: %s\n", message)
		return
	}
	t.printf("Error: %s\n", message)
}

func warningMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
