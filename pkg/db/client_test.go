package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fanlingworks/furniture-pos/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.DBConfig{
		DSN:          fmt.Sprintf("file:dbclient_%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.DB().Exec("CREATE TABLE things (name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO things (name) VALUES ('kept')").Error
	})
	if err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	wantErr := fmt.Errorf("boom")
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO things (name) VALUES ('discarded')").Error; err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected fn error back, got %v", err)
	}

	var count int64
	if err := client.DB().Raw("SELECT COUNT(*) FROM things").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to discard second row, got %d rows", count)
	}
}
