package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesalabs/mesa-backend/api/controllers"
	"github.com/mesalabs/mesa-backend/api/middleware"
	cartsvc "github.com/mesalabs/mesa-backend/internal/cart"
	"github.com/mesalabs/mesa-backend/internal/menu"
	"github.com/mesalabs/mesa-backend/internal/orders"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/config"
	"github.com/mesalabs/mesa-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	cartManager *cartsvc.Manager,
	menuService *menu.Service,
	promotionService *promotions.Service,
	orderService *orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(menuService, logg))
			r.Get("/{itemID}", controllers.MenuItem(menuService, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/active", controllers.PromotionsActive(promotionService, logg))
			r.Get("/expired", controllers.PromotionsExpired(promotionService, logg))
			r.Post("/", controllers.PromotionCreate(promotionService, logg))
			r.Delete("/{promotionID}", controllers.PromotionDelete(promotionService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartManager, logg))
				r.Delete("/", controllers.CartClear(cartManager, logg))
				r.Post("/items", controllers.CartAddItem(cartManager, menuService, logg))
				r.Post("/items/{itemID}/increment", controllers.CartIncrement(cartManager, logg))
				r.Post("/items/{itemID}/decrement", controllers.CartDecrement(cartManager, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartManager, logg))
				r.Post("/promotion", controllers.CartApplyPromotion(cartManager, promotionService, logg))
				r.Delete("/promotion", controllers.CartRemovePromotion(cartManager, logg))
			})

			r.Post("/orders", controllers.OrderPlace(cartManager, orderService, logg))
		})
	})

	return r
}
