package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/internal/notify"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/enums"
)

// Promotion retraction reasons, used as metric labels.
const (
	retractReasonBundleGone      = "bundle_items_gone"
	retractReasonExpired         = "expired"
	retractReasonConditionFailed = "condition_failed"
)

// recalculate is the single authoritative pass that derives totals and keeps
// the applied promotion honest. It runs after every mutation, under the
// engine lock, and is idempotent: a second pass over unchanged state commits
// identical values.
//
// Step order matters; each guard may retract the promotion and stop.
func (e *Engine) recalculate(ctx context.Context) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveRecalculation(time.Since(start))
	}()

	e.state.TotalItems = countItems(e.state.Items)
	e.state.Subtotal = paidSubtotal(e.state.Items)

	promo := e.state.AppliedPromotion

	// A bundle only makes sense alongside something bought.
	if promo != nil && promo.Kind == enums.PromotionBundle && !hasPaidItem(e.state.Items) {
		e.retractPromotion(ctx, retractReasonBundleGone, "Required items no longer in cart")
		return
	}

	if promo != nil {
		if !promo.CanApply(e.now()) {
			e.retractPromotion(ctx, retractReasonExpired, "Promotion has expired")
			return
		}
		result := e.registry.Validate(ctx, promo.Conditions, e.state.Snapshot())
		if !result.Valid {
			e.retractPromotion(ctx, retractReasonConditionFailed, "Cart no longer meets the required conditions")
			return
		}
	}

	if e.state.Subtotal.IsZero() && len(e.state.Items) == 0 {
		e.state = NewCartState()
		return
	}

	e.state.DiscountAmount = discountFor(promo, e.state.Subtotal)
	e.state.Total = e.state.Subtotal.Sub(e.state.DiscountAmount).Round(2)
}

// retractPromotion drops the promotion mid-recalculation and tells the user
// why, without blocking whatever mutation triggered the pass.
func (e *Engine) retractPromotion(ctx context.Context, reason, message string) {
	e.dropPromotion()
	e.metrics.IncRetraction(reason)
	e.notifier.Show(ctx, notify.KindInfo, "Promotion Removed", message)
}

// dropPromotion clears the applied promotion, purges promotional lines and
// recomputes totals directly from the surviving paid lines.
func (e *Engine) dropPromotion() {
	kept := e.state.Items[:0]
	for _, line := range e.state.Items {
		if line.Origin != enums.OriginPromotional {
			kept = append(kept, line)
		}
	}
	e.state.Items = kept
	e.state.AppliedPromotion = nil
	e.state.TotalItems = countItems(e.state.Items)
	e.state.Subtotal = paidSubtotal(e.state.Items)
	e.state.DiscountAmount = decimal.Zero
	e.state.Total = e.state.Subtotal
}

// discountFor computes the promotion's subtotal discount, clamped to
// [0, subtotal] and rounded to 2 places. Bundles discount nothing: their
// value is the free items themselves.
func discountFor(promo *promotions.Promotion, subtotal decimal.Decimal) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.Kind {
	case enums.PromotionPercentage:
		if promo.PercentOff != nil {
			discount = subtotal.Mul(decimal.NewFromInt(int64(*promo.PercentOff))).Div(decimal.NewFromInt(100))
		}
	case enums.PromotionFixedAmount:
		if promo.FlatAmount != nil {
			discount = *promo.FlatAmount
		}
	case enums.PromotionBundle:
		discount = decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal.Round(2)
	}
	return discount.Round(2)
}
