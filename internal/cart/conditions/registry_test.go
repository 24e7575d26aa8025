package conditions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/internal/promotions"
)

func snapshot(total float64, items ...OrderItem) OrderSnapshot {
	return OrderSnapshot{Items: items, Total: decimal.NewFromFloat(total)}
}

func TestValidateRunsInDeclarationOrder(t *testing.T) {
	reg := NewRegistry()
	var seen []string
	reg.Register("first", func(context.Context, any, OrderSnapshot) error {
		seen = append(seen, "first")
		return nil
	})
	reg.Register("second", func(context.Context, any, OrderSnapshot) error {
		seen = append(seen, "second")
		return nil
	})

	conds := promotions.Conditions{
		{Key: "second", Value: nil},
		{Key: "first", Value: nil},
	}
	result := reg.Validate(context.Background(), conds, OrderSnapshot{})
	if !result.Valid {
		t.Fatalf("expected valid, got %+v", result)
	}
	if len(seen) != 2 || seen[0] != "second" || seen[1] != "first" {
		t.Fatalf("expected declaration order, got %v", seen)
	}
}

func TestValidateShortCircuitsOnFirstFailure(t *testing.T) {
	reg := NewRegistry()
	var ranSecond bool
	reg.Register("gate", func(context.Context, any, OrderSnapshot) error {
		return errors.New("blocked")
	})
	reg.Register("later", func(context.Context, any, OrderSnapshot) error {
		ranSecond = true
		return nil
	})

	conds := promotions.Conditions{
		{Key: "gate", Value: nil},
		{Key: "later", Value: nil},
	}
	result := reg.Validate(context.Background(), conds, OrderSnapshot{})
	if result.Valid {
		t.Fatal("expected failure")
	}
	if result.FailedKey != "gate" || result.Message != "blocked" {
		t.Fatalf("unexpected result %+v", result)
	}
	if ranSecond {
		t.Fatal("expected evaluation to stop at the first failure")
	}
}

func TestValidateSkipsUnknownKeys(t *testing.T) {
	reg := NewRegistry()
	conds := promotions.Conditions{
		{Key: "unheard_of_condition", Value: 42},
	}
	result := reg.Validate(context.Background(), conds, OrderSnapshot{})
	if !result.Valid {
		t.Fatalf("expected unknown keys to be skipped, got %+v", result)
	}
}

func TestValidateRecoversPanickingValidator(t *testing.T) {
	reg := NewRegistry()
	reg.Register("explosive", func(context.Context, any, OrderSnapshot) error {
		panic("boom")
	})

	conds := promotions.Conditions{{Key: "explosive", Value: nil}}
	result := reg.Validate(context.Background(), conds, OrderSnapshot{})
	if result.Valid {
		t.Fatal("expected panic to become a failure")
	}
	if result.FailedKey != "explosive" || !strings.Contains(result.Message, "boom") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRegisterReplacesValidator(t *testing.T) {
	reg := NewRegistry()
	reg.Register("key", func(context.Context, any, OrderSnapshot) error {
		return errors.New("old")
	})
	reg.Register("key", func(context.Context, any, OrderSnapshot) error {
		return nil
	})

	result := reg.Validate(context.Background(), promotions.Conditions{{Key: "key"}}, OrderSnapshot{})
	if !result.Valid {
		t.Fatalf("expected replacement validator to pass, got %+v", result)
	}
}

func TestRequiredItemIDs(t *testing.T) {
	order := snapshot(30,
		OrderItem{ID: 1, Quantity: 2, Price: decimal.NewFromInt(10)},
		OrderItem{ID: 7, Quantity: 1, Price: decimal.NewFromInt(10)},
	)

	if err := RequiredItemIDs(context.Background(), []any{float64(1), float64(7)}, order); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}

	err := RequiredItemIDs(context.Background(), []any{float64(1), float64(9)}, order)
	if err == nil || !strings.Contains(err.Error(), "missing required items: 9") {
		t.Fatalf("expected missing-items failure, got %v", err)
	}

	err = RequiredItemIDs(context.Background(), "not-a-list", order)
	if err == nil || err.Error() != "must be an array of item ids" {
		t.Fatalf("expected array-shape failure, got %v", err)
	}

	// String ids coerce to numbers.
	if err := RequiredItemIDs(context.Background(), []any{"1", "7"}, order); err != nil {
		t.Fatalf("expected string ids to coerce, got %v", err)
	}
}

func TestRequiredItemIDsIgnoresQuantities(t *testing.T) {
	order := snapshot(10, OrderItem{ID: 3, Quantity: 1, Price: decimal.NewFromInt(10)})
	if err := RequiredItemIDs(context.Background(), []any{float64(3)}, order); err != nil {
		t.Fatalf("presence is enough regardless of quantity, got %v", err)
	}
}

func TestMinOrderValue(t *testing.T) {
	order := snapshot(20)

	if err := MinOrderValue(context.Background(), float64(15), order); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}

	err := MinOrderValue(context.Background(), float64(50), order)
	if err == nil {
		t.Fatal("expected failure below minimum")
	}
	if !strings.Contains(err.Error(), "50.00") || !strings.Contains(err.Error(), "20.00") {
		t.Fatalf("expected message to carry minimum and actual, got %v", err)
	}

	err = MinOrderValue(context.Background(), "fifty", order)
	if err == nil || err.Error() != "must be a number" {
		t.Fatalf("expected numeric-shape failure, got %v", err)
	}
}

func TestMinOrderValueFallsBackToItemSum(t *testing.T) {
	order := OrderSnapshot{Items: []OrderItem{
		{ID: 1, Quantity: 2, Price: decimal.NewFromInt(10)},
		{ID: 2, Quantity: 1, Price: decimal.NewFromInt(5)},
	}}

	if err := MinOrderValue(context.Background(), float64(25), order); err != nil {
		t.Fatalf("expected summed total 25 to pass, got %v", err)
	}
	if err := MinOrderValue(context.Background(), float64(26), order); err == nil {
		t.Fatal("expected summed total 25 to fail a 26 minimum")
	}
}
