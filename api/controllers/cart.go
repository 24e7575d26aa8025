package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mesalabs/mesa-backend/api/middleware"
	"github.com/mesalabs/mesa-backend/api/responses"
	"github.com/mesalabs/mesa-backend/api/validators"
	cartsvc "github.com/mesalabs/mesa-backend/internal/cart"
	"github.com/mesalabs/mesa-backend/internal/menu"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/enums"
	pkgerrors "github.com/mesalabs/mesa-backend/pkg/errors"
	"github.com/mesalabs/mesa-backend/pkg/logger"
)

type addItemRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
	Qty    int   `json:"qty" validate:"omitempty,gt=0"`
}

type applyPromotionRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartFetch returns the current cart state.
func CartFetch(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, engine.State())
	}
}

// CartAddItem resolves the dish from the menu and adds it to the cart.
func CartAddItem(manager *cartsvc.Manager, menuSvc *menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := menuSvc.GetItem(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := engine.AddItem(r.Context(), cartsvc.AddItemInput{
			ItemID:     item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			OutOfStock: item.OutOfStock,
		}, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartIncrement raises the quantity of one cart line.
func CartIncrement(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, itemID, origin, err := cartLineTarget(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := engine.Increment(r.Context(), itemID, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartDecrement lowers the quantity of one cart line.
func CartDecrement(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, itemID, origin, err := cartLineTarget(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := engine.Decrement(r.Context(), itemID, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartRemoveItem deletes one cart line.
func CartRemoveItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, itemID, origin, err := cartLineTarget(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := engine.RemoveItem(r.Context(), itemID, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartClear empties the cart.
func CartClear(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := engine.ClearCart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartApplyPromotion resolves a coupon code and applies it to the cart,
// pre-resolving reward items for bundle promotions.
func CartApplyPromotion(manager *cartsvc.Manager, promoSvc *promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := promoSvc.GetByCode(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var bundleLines []promotions.BundleLine
		if promo.Kind == enums.PromotionBundle {
			if promo.BundleID == nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeBundleData, "bundle promotion has no bundle configured"))
				return
			}
			bundleLines, err = promoSvc.ResolveBundleLines(r.Context(), *promo.BundleID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		state, err := engine.ApplyPromotion(r.Context(), promo, bundleLines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CartRemovePromotion drops the applied promotion.
func CartRemovePromotion(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := cartEngine(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := engine.RemovePromotion(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

func cartEngine(r *http.Request, manager *cartsvc.Manager) (*cartsvc.Engine, error) {
	if manager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable")
	}
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	engine, err := manager.Engine(r.Context(), cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to materialize cart")
	}
	return engine, nil
}

func cartLineTarget(r *http.Request, manager *cartsvc.Manager) (*cartsvc.Engine, int64, enums.ItemOrigin, error) {
	engine, err := cartEngine(r, manager)
	if err != nil {
		return nil, 0, "", err
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		return nil, 0, "", pkgerrors.New(pkgerrors.CodeValidation, "item id must be an integer")
	}
	origin, err := enums.ParseItemOrigin(r.URL.Query().Get("origin"))
	if err != nil {
		return nil, 0, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid origin")
	}
	return engine, itemID, origin, nil
}
