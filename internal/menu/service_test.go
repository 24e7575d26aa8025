package menu

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/mesalabs/mesa-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&MenuItem{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return NewService(NewRepository(conn)), conn
}

func TestGetItem(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	seeded := MenuItem{Name: "Pad Thai", Price: decimal.NewFromFloat(12.50), Active: true}
	if err := conn.Create(&seeded).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	item, err := svc.GetItem(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.Name != "Pad Thai" {
		t.Fatalf("unexpected name %q", item.Name)
	}
	if !item.Price.Equal(decimal.NewFromFloat(12.50)) {
		t.Fatalf("unexpected price %s", item.Price)
	}

	_, err = svc.GetItem(ctx, seeded.ID+99)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetItemHidesInactive(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	retired := MenuItem{Name: "Retired Dish", Price: decimal.NewFromInt(9), Active: false}
	if err := conn.Create(&retired).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.GetItem(ctx, retired.ID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for inactive item, got %v", err)
	}
}

func TestListMenu(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	seed := []MenuItem{
		{Name: "Spring Rolls", Price: decimal.NewFromFloat(5.00), Active: true},
		{Name: "Green Curry", Price: decimal.NewFromFloat(14.00), Active: true},
		{Name: "Hidden", Price: decimal.NewFromFloat(1.00), Active: false},
	}
	for i := range seed {
		if err := conn.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	items, err := svc.ListMenu(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(items))
	}
	if items[0].Name != "Green Curry" || items[1].Name != "Spring Rolls" {
		t.Fatalf("expected name order, got %+v", items)
	}
}

func TestListMenuIncludesOutOfStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	item := MenuItem{Name: "Mango Sticky Rice", Price: decimal.NewFromFloat(7.50), OutOfStock: true, Active: true}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	items, err := svc.ListMenu(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || !items[0].OutOfStock {
		t.Fatalf("expected out-of-stock item to stay listed, got %+v", items)
	}
}
