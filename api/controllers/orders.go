package controllers

import (
	"net/http"

	"github.com/mesalabs/mesa-backend/api/responses"
	cartsvc "github.com/mesalabs/mesa-backend/internal/cart"
	"github.com/mesalabs/mesa-backend/internal/orders"
	pkgerrors "github.com/mesalabs/mesa-backend/pkg/errors"
	"github.com/mesalabs/mesa-backend/pkg/logger"
)

// OrderPlace submits the live cart as an order. The cart is cleared once the
// order is stored.
func OrderPlace(manager *cartsvc.Manager, svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := engine.State()
		if len(state.Items) == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "cannot place an order from an empty cart"))
			return
		}

		input := orders.PlaceInput{
			CartID:         engine.ID(),
			Subtotal:       state.Subtotal,
			DiscountAmount: state.DiscountAmount,
			Total:          state.Total,
		}
		if state.AppliedPromotion != nil {
			promoID := state.AppliedPromotion.ID
			input.PromotionID = &promoID
		}
		for _, line := range state.Items {
			input.Items = append(input.Items, orders.PlaceItem{
				ItemID:    line.ItemID,
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				Origin:    line.Origin,
			})
		}

		placed, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := engine.ClearCart(r.Context()); err != nil && logg != nil {
			logg.Error(r.Context(), "failed to clear cart after checkout", err)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id": placed.ID,
			"total":    placed.Total,
		})
	}
}
