package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cartsvc "github.com/mesalabs/mesa-backend/internal/cart"
	"github.com/mesalabs/mesa-backend/internal/menu"
	"github.com/mesalabs/mesa-backend/internal/orders"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/config"
	"github.com/mesalabs/mesa-backend/pkg/enums"
	"github.com/mesalabs/mesa-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type routerFixture struct {
	handler http.Handler
	db      *gorm.DB
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&menu.MenuItem{},
		&promotions.Promotion{}, &promotions.Bundle{}, &promotions.BundleItem{},
		&orders.Order{}, &orders.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"

	handler := NewRouter(
		cfg,
		nil,
		stubPinger{},
		stubPinger{},
		cartsvc.NewManager(cartsvc.Deps{Store: cartsvc.NoopStore{}}),
		menu.NewService(menu.NewRepository(conn)),
		promotions.NewService(promotions.NewRepository(conn)),
		orders.NewService(orders.NewRepository(conn)),
	)
	return &routerFixture{handler: handler, db: conn}
}

func (f *routerFixture) seedDish(t *testing.T, name string, price float64) *menu.MenuItem {
	t.Helper()
	item := menu.MenuItem{Name: name, Price: decimal.NewFromFloat(price), Active: true}
	if err := f.db.Create(&item).Error; err != nil {
		t.Fatalf("seed dish failed: %v", err)
	}
	return &item
}

func (f *routerFixture) seedPercentPromo(t *testing.T, code string, pct int) {
	t.Helper()
	promo := promotions.Promotion{
		Name:              "Test Promo",
		Code:              code,
		Kind:              enums.PromotionPercentage,
		PercentOff:        &pct,
		Active:            true,
		ValidFrom:         time.Now().Add(-time.Hour),
		ApplicationMethod: enums.ApplicationCode,
	}
	if err := f.db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo failed: %v", err)
	}
}

func (f *routerFixture) do(t *testing.T, method, path, cartID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	if cartID != "" {
		req.Header.Set("X-Cart-Id", cartID)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeCartState(t *testing.T, rec *httptest.ResponseRecorder) cartsvc.CartState {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal cart data: %v", err)
	}
	var state cartsvc.CartState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("failed to decode cart state: %v", err)
	}
	return state
}

func TestHealthAndMetrics(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(t, http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/metrics", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}

func TestMenuEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	dish := f.seedDish(t, "Pad Thai", 12.50)

	if rec := f.do(t, http.MethodGet, "/api/v1/menu/", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("menu list: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	path := fmt.Sprintf("/api/v1/menu/%d", dish.ID)
	if rec := f.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
		t.Fatalf("menu item: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/menu/99999", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing item: expected 404, got %d", rec.Code)
	}
}

func TestCartCheckoutFlow(t *testing.T) {
	f := newRouterFixture(t)
	dish := f.seedDish(t, "Pad Thai", 10.00)
	f.seedPercentPromo(t, "SAVE10", 10)

	// First touch mints the cart session.
	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "", map[string]any{
		"item_id": dish.ID,
		"qty":     2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	cartID := rec.Header().Get("X-Cart-Id")
	if cartID == "" {
		t.Fatal("expected minted X-Cart-Id header")
	}
	state := decodeCartState(t, rec)
	if !state.Subtotal.Equal(decimal.NewFromInt(20)) || state.TotalItems != 2 {
		t.Fatalf("unexpected cart after add: %+v", state)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/cart/promotion", cartID, map[string]any{"code": "SAVE10"})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply promotion: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	state = decodeCartState(t, rec)
	if !state.DiscountAmount.Equal(decimal.NewFromInt(2)) || !state.Total.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("unexpected cart after promotion: %+v", state)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/orders", cartID, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d (%s)", rec.Code, rec.Body)
	}

	// Checkout drains the cart.
	rec = f.do(t, http.MethodGet, "/api/v1/cart/", cartID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cart fetch: expected 200, got %d", rec.Code)
	}
	state = decodeCartState(t, rec)
	if len(state.Items) != 0 || !state.Total.IsZero() {
		t.Fatalf("expected empty cart after checkout, got %+v", state)
	}

	var count int64
	if err := f.db.Model(&orders.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored order, got %d", count)
	}
}

func TestCartApplyUnknownCode(t *testing.T) {
	f := newRouterFixture(t)
	dish := f.seedDish(t, "Pad Thai", 10.00)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"item_id": dish.ID})
	cartID := rec.Header().Get("X-Cart-Id")

	rec = f.do(t, http.MethodPost, "/api/v1/cart/promotion", cartID, map[string]any{"code": "NOPE"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d (%s)", rec.Code, rec.Body)
	}
}

func TestOrderFromEmptyCartRejected(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d (%s)", rec.Code, rec.Body)
	}
}

func TestCartLineMutations(t *testing.T) {
	f := newRouterFixture(t)
	dish := f.seedDish(t, "Pad Thai", 10.00)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"item_id": dish.ID})
	cartID := rec.Header().Get("X-Cart-Id")

	path := fmt.Sprintf("/api/v1/cart/items/%d/increment", dish.ID)
	rec = f.do(t, http.MethodPost, path, cartID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("increment: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	state := decodeCartState(t, rec)
	if state.TotalItems != 2 {
		t.Fatalf("expected 2 items after increment, got %d", state.TotalItems)
	}

	path = fmt.Sprintf("/api/v1/cart/items/%d?origin=paid", dish.ID)
	rec = f.do(t, http.MethodDelete, path, cartID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	state = decodeCartState(t, rec)
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
}
