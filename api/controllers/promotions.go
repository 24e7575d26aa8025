package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mesalabs/mesa-backend/api/responses"
	"github.com/mesalabs/mesa-backend/api/validators"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/enums"
	pkgerrors "github.com/mesalabs/mesa-backend/pkg/errors"
	"github.com/mesalabs/mesa-backend/pkg/logger"
)

type createPromotionRequest struct {
	Name              string           `json:"name" validate:"required"`
	Code              string           `json:"code" validate:"required"`
	Kind              string           `json:"kind" validate:"required,oneof=percentage fixed_amount bundle"`
	PercentOff        *int             `json:"percent_off,omitempty"`
	FlatAmount        *decimal.Decimal `json:"flat_amount,omitempty"`
	BundleID          *int64           `json:"bundle_id,omitempty"`
	ApplicationMethod string           `json:"application_method,omitempty" validate:"omitempty,oneof=code auto_discount"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidTo           *time.Time       `json:"valid_to,omitempty"`
	Conditions        json.RawMessage  `json:"conditions,omitempty"`
}

// PromotionsActive lists promotions currently inside their window.
func PromotionsActive(svc *promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promos, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promos)
	}
}

// PromotionsExpired lists a page of closed promotions.
func PromotionsExpired(svc *promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.QueryInt(r, "page", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.QueryInt(r, "limit", 5)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListExpired(r.Context(), page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PromotionCreate registers a new promotion.
func PromotionCreate(svc *promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var conds promotions.Conditions
		if len(payload.Conditions) > 0 {
			if err := conds.UnmarshalJSON(payload.Conditions); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid conditions"))
				return
			}
		}

		created, err := svc.Create(r.Context(), promotions.CreateInput{
			Name:              payload.Name,
			Code:              payload.Code,
			Kind:              enums.PromotionKind(payload.Kind),
			PercentOff:        payload.PercentOff,
			FlatAmount:        payload.FlatAmount,
			BundleID:          payload.BundleID,
			ApplicationMethod: enums.ApplicationMethod(payload.ApplicationMethod),
			ValidFrom:         payload.ValidFrom,
			ValidTo:           payload.ValidTo,
			Conditions:        conds,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PromotionDelete removes a promotion.
func PromotionDelete(svc *promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "promotionID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "promotion id must be an integer"))
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
