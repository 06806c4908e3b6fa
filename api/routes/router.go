package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tableserve-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/tableserve-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/tableserve-backend/api/controllers/orders"
	"github.com/angelmondragon/tableserve-backend/api/middleware"
	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/orders"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	"github.com/angelmondragon/tableserve-backend/pkg/db"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/redis"
)

// Cache is the Redis surface the router needs: replayed responses and readiness.
type Cache interface {
	redis.IdempotencyStore
	redis.Pinger
}

const scopePath = "/restaurants/{restaurantSlug}/sessions/{sessionId}/menus/{menuId}"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache Cache,
	gatherer prometheus.Gatherer,
	catalogReader catalog.Reader,
	cartService cart.Service,
	tables ordercontrollers.TableSelector,
	submitter ordercontrollers.CartSubmitter,
	ordersSvc orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var idempotencyStore redis.IdempotencyStore
	var cachePinger redis.Pinger
	if cache != nil {
		idempotencyStore = cache
		cachePinger = cache
	}
	idempotent := middleware.Idempotency(idempotencyStore, cfg.Cart.IdempotencyKeyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireOrderingRole(logg))

		r.Route(scopePath, func(r chi.Router) {
			r.Use(middleware.RestaurantScope(logg))

			r.Get("/items", cartcontrollers.MenuItems(catalogReader, logg))

			r.Get("/cart", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/cart", cartcontrollers.CartClear(cartService, logg))
			r.Post("/cart/lines", cartcontrollers.CartAddLine(cartService, logg))
			r.Put("/cart/lines/{lineId}", cartcontrollers.CartEditLine(cartService, logg))
			// positional removal lives under its own segment so it cannot shadow {lineId}
			r.Delete("/cart/lines/at/{index}", cartcontrollers.CartRemoveLine(cartService, logg))
			r.Post("/cart/quote", cartcontrollers.CartQuote(cartService, logg))

			r.Get("/table", ordercontrollers.TableFetch(tables, logg))
			r.Put("/table", ordercontrollers.TableSelect(tables, logg))
			r.Delete("/table", ordercontrollers.TableReset(tables, logg))

			r.With(idempotent).Post("/submit", ordercontrollers.Submit(submitter, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RestaurantContext(logg))

			r.With(idempotent).Post("/sessions/{sessionId}/order-batches", ordercontrollers.CreateBatch(ordersSvc, logg))
			r.Get("/sessions/{sessionId}/order-batches", ordercontrollers.ListBatches(ordersSvc, logg))
			r.Get("/order-batches/{batchId}", ordercontrollers.BatchDetail(ordersSvc, logg))
		})
	})

	return r
}
