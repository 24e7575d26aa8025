package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mesalabs/mesa-backend/pkg/logger"
)

const cartIDHeader = "X-Cart-Id"

// CartSession resolves the anonymous cart identity for the request. A valid
// X-Cart-Id header is reused; anything else gets a freshly minted id. The
// resolved id is echoed back so clients can persist it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID, err := uuid.Parse(r.Header.Get(cartIDHeader))
			if err != nil {
				cartID = uuid.New()
			}

			w.Header().Set(cartIDHeader, cartID.String())

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
