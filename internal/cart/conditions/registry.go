package conditions

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/internal/promotions"
)

// OrderItem is one cart line as seen by validators.
type OrderItem struct {
	ID       int64
	Quantity int
	Price    decimal.Decimal
}

// OrderSnapshot is the projection of the cart handed to validators. It is
// rebuilt for every validation pass so predicates always see live state.
type OrderSnapshot struct {
	Items []OrderItem
	Total decimal.Decimal
}

// ValidatorFunc checks one declared condition value against the order.
// Returning nil passes; a non-nil error fails the condition with the error's
// message as the user-facing explanation.
type ValidatorFunc func(ctx context.Context, value any, order OrderSnapshot) error

// Result is the outcome of validating a promotion's conditions.
type Result struct {
	Valid     bool
	FailedKey string
	Message   string
}

// Registry maps condition keys to validator predicates. Registration is
// additive for the process lifetime; re-registering a key replaces the
// previous predicate.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]ValidatorFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]ValidatorFunc)}
}

// NewDefaultRegistry returns a registry preloaded with the built-in
// validators.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KeyRequiredItemIDs, RequiredItemIDs)
	r.Register(KeyMinOrderValue, MinOrderValue)
	return r
}

// Register installs fn for key, replacing any previous validator.
func (r *Registry) Register(key string, fn ValidatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[key] = fn
}

// Validate runs the declared conditions in declaration order and
// short-circuits on the first failure. Keys with no registered validator are
// skipped so unknown conditions never block an application. A panicking
// predicate is converted into a failure, never propagated.
func (r *Registry) Validate(ctx context.Context, conds promotions.Conditions, order OrderSnapshot) Result {
	for _, cond := range conds {
		r.mu.RLock()
		fn, ok := r.validators[cond.Key]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		if err := r.run(ctx, fn, cond.Value, order); err != nil {
			return Result{Valid: false, FailedKey: cond.Key, Message: err.Error()}
		}
	}
	return Result{Valid: true}
}

func (r *Registry) run(ctx context.Context, fn ValidatorFunc, value any, order OrderSnapshot) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("validator failed: %v", rec)
		}
	}()
	return fn(ctx, value, order)
}
