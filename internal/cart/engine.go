package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/internal/cart/conditions"
	"github.com/mesalabs/mesa-backend/internal/notify"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/enums"
	apperrors "github.com/mesalabs/mesa-backend/pkg/errors"
	"github.com/mesalabs/mesa-backend/pkg/logger"
	"github.com/mesalabs/mesa-backend/pkg/metrics"
)

// Deps are the collaborators an engine needs. Zero fields get safe defaults.
type Deps struct {
	Registry *conditions.Registry
	Store    Store
	Notifier notify.Notifier
	Metrics  *metrics.CartMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

// Engine owns one cart's state. Every mutation takes the engine lock, applies
// the change, runs the recalculation pass, commits and persists — so a
// mutation's recalculation always completes before the next mutation starts,
// and no caller ever observes a partially-updated cart.
type Engine struct {
	mu       sync.Mutex
	id       uuid.UUID
	state    CartState
	registry *conditions.Registry
	store    Store
	notifier notify.Notifier
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewEngine builds an engine for the cart id.
func NewEngine(id uuid.UUID, deps Deps) *Engine {
	if deps.Registry == nil {
		deps.Registry = conditions.NewDefaultRegistry()
	}
	if deps.Store == nil {
		deps.Store = NoopStore{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{
		id:       id,
		state:    NewCartState(),
		registry: deps.Registry,
		store:    deps.Store,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logg:     deps.Logger,
		now:      deps.Now,
	}
}

// restore replaces the engine state with a persisted snapshot. Called by the
// manager before the engine is handed out.
func (e *Engine) restore(state CartState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	e.state = state
}

// ID returns the cart id this engine owns.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// State returns a copy of the current cart.
func (e *Engine) State() CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// AddItemInput describes a dish being added, as resolved from the menu.
type AddItemInput struct {
	ItemID     int64
	Name       string
	UnitPrice  decimal.Decimal
	OutOfStock bool
}

// AddItem merges qty into an existing paid line for the dish or creates one.
// Out-of-stock dishes are a no-op.
func (e *Engine) AddItem(ctx context.Context, item AddItemInput, qty int) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if item.OutOfStock {
		return e.state.Clone(), nil
	}
	if qty < 1 {
		qty = 1
	}

	if idx := findLine(e.state.Items, item.ItemID, enums.OriginPaid); idx >= 0 {
		e.state.Items[idx].Quantity += qty
	} else {
		e.state.Items = append(e.state.Items, LineItem{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  qty,
			Origin:    enums.OriginPaid,
		})
	}

	e.metrics.IncMutation("add_item")
	e.recalculate(ctx)
	e.persist(ctx)
	return e.state.Clone(), nil
}

// Increment raises the (id, origin) line quantity by one.
func (e *Engine) Increment(ctx context.Context, itemID int64, origin enums.ItemOrigin) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := findLine(e.state.Items, itemID, origin)
	if idx < 0 {
		return e.state.Clone(), apperrors.New(apperrors.CodeNotFound, "item is not in the cart")
	}
	e.state.Items[idx].Quantity++

	e.metrics.IncMutation("increment")
	e.recalculate(ctx)
	e.persist(ctx)
	return e.state.Clone(), nil
}

// Decrement lowers the (id, origin) line quantity by one; reaching zero
// removes the line.
func (e *Engine) Decrement(ctx context.Context, itemID int64, origin enums.ItemOrigin) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := findLine(e.state.Items, itemID, origin)
	if idx < 0 {
		return e.state.Clone(), apperrors.New(apperrors.CodeNotFound, "item is not in the cart")
	}
	if e.state.Items[idx].Quantity <= 1 {
		e.state.Items = append(e.state.Items[:idx], e.state.Items[idx+1:]...)
	} else {
		e.state.Items[idx].Quantity--
	}

	e.metrics.IncMutation("decrement")
	e.recalculate(ctx)
	e.persist(ctx)
	return e.state.Clone(), nil
}

// RemoveItem deletes the (id, origin) line unconditionally.
func (e *Engine) RemoveItem(ctx context.Context, itemID int64, origin enums.ItemOrigin) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := findLine(e.state.Items, itemID, origin)
	if idx < 0 {
		return e.state.Clone(), apperrors.New(apperrors.CodeNotFound, "item is not in the cart")
	}
	e.state.Items = append(e.state.Items[:idx], e.state.Items[idx+1:]...)

	e.metrics.IncMutation("remove_item")
	e.recalculate(ctx)
	e.persist(ctx)
	return e.state.Clone(), nil
}

// ClearCart resets the cart to its zero state. A guaranteed-empty cart needs
// no recalculation.
func (e *Engine) ClearCart(ctx context.Context) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = NewCartState()

	e.metrics.IncMutation("clear_cart")
	e.persist(ctx)
	return e.state.Clone(), nil
}

// ApplyPromotion validates the promotion against the live cart and installs
// it. Bundle promotions need their reward lines pre-resolved; bundleLines is
// ignored for other kinds.
func (e *Engine) ApplyPromotion(ctx context.Context, promo *promotions.Promotion, bundleLines []promotions.BundleLine) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if promo == nil {
		return e.state.Clone(), apperrors.New(apperrors.CodeValidation, "promotion is required")
	}

	if !promo.CanApply(e.now()) {
		e.notifier.Show(ctx, notify.KindError, "Cannot Apply", "Promotion has expired")
		return e.state.Clone(), apperrors.New(apperrors.CodeExpired, "promotion has expired")
	}

	result := e.registry.Validate(ctx, promo.Conditions, e.state.Snapshot())
	if !result.Valid {
		e.notifier.Show(ctx, notify.KindError, "Cannot Apply", result.Message)
		return e.state.Clone(), apperrors.New(apperrors.CodeConditionFailed, result.Message).
			WithDetails(map[string]string{"failed_key": result.FailedKey})
	}

	if promo.Kind == enums.PromotionBundle {
		if len(bundleLines) == 0 {
			e.notifier.Show(ctx, notify.KindError, "Cannot Apply", "Bundle items are unavailable")
			return e.state.Clone(), apperrors.New(apperrors.CodeBundleData, "bundle has no reward items")
		}
		for _, line := range bundleLines {
			if idx := findLine(e.state.Items, line.ItemID, enums.OriginPromotional); idx >= 0 {
				e.state.Items[idx].Quantity += line.Quantity
				continue
			}
			e.state.Items = append(e.state.Items, LineItem{
				ItemID:    line.ItemID,
				Name:      line.Name,
				UnitPrice: decimal.Zero,
				Quantity:  line.Quantity,
				Origin:    enums.OriginPromotional,
			})
		}
	}

	e.state.AppliedPromotion = promo

	e.metrics.IncMutation("apply_promotion")
	e.recalculate(ctx)
	e.persist(ctx)

	if e.state.AppliedPromotion != nil {
		e.notifier.Show(ctx, notify.KindSuccess, "Promotion Applied", promo.Name)
	}
	return e.state.Clone(), nil
}

// RemovePromotion deliberately drops the applied promotion and its
// promotional lines. No re-validation runs on this path.
func (e *Engine) RemovePromotion(ctx context.Context) (CartState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	had := e.state.AppliedPromotion != nil
	e.dropPromotion()

	e.metrics.IncMutation("remove_promotion")
	e.persist(ctx)

	if had {
		e.notifier.Show(ctx, notify.KindSuccess, "Promotion Removed", "The promotion was removed from your cart")
	}
	return e.state.Clone(), nil
}

// persist writes the committed state. Persistence is best-effort: a failed
// save is logged and the in-memory state remains authoritative.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.id, e.state); err != nil && e.logg != nil {
		ctx = e.logg.WithCartID(ctx, e.id.String())
		e.logg.Error(ctx, "failed to persist cart", err)
	}
}
