package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRunUpCreatesSchema(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	if err := Run(ctx, conn, "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	for _, table := range []string{"products", "cart_lines"} {
		var name string
		err := conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s after migration: %v", table, err)
		}
	}
}

func TestRunUpIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	if err := Run(ctx, conn, "up"); err != nil {
		t.Fatalf("first up: %v", err)
	}
	if err := Run(ctx, conn, "up"); err != nil {
		t.Fatalf("second up: %v", err)
	}
}

func TestStockLevelCheckConstraint(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	if err := Run(ctx, conn, "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	_, err := conn.Exec(`INSERT INTO products
		(id, category, model_no, category_label, warehouse_location, stock_level, price)
		VALUES ('x', 'chair', 'CH-XXX', 'Chair', 'FanLing', -1, 0)`)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject negative stock")
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := Run(context.Background(), nil, "up"); err == nil {
		t.Fatal("expected error for nil db")
	}
}
