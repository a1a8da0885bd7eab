package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/podomall/podomall-backend/api/controllers"
	"github.com/podomall/podomall-backend/api/middleware"
	"github.com/podomall/podomall-backend/internal/cart"
	"github.com/podomall/podomall-backend/internal/catalog"
	checkoutsvc "github.com/podomall/podomall-backend/internal/checkout"
	"github.com/podomall/podomall-backend/internal/notifications"
	"github.com/podomall/podomall-backend/internal/orders"
	"github.com/podomall/podomall-backend/internal/shipping"
	"github.com/podomall/podomall-backend/internal/users"
	"github.com/podomall/podomall-backend/pkg/auth/session"
	"github.com/podomall/podomall-backend/pkg/config"
	"github.com/podomall/podomall-backend/pkg/logger"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          controllers.Pinger
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry

	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Users         users.Service
	Provision     users.ProvisionService
	Notifications notifications.Service
	Shipping      shipping.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
		})

		// Partner callbacks authenticate out of band, not with user tokens.
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/tracking", controllers.TrackingWebhook(deps.Shipping, logg))
			r.Post("/users", controllers.ProvisionUser(deps.Provision, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateQuantity(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			})

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(deps.Users, logg))
				r.Put("/customs-number", controllers.UpdateCustomsNumber(deps.Users, logg))
				r.Get("/addresses", controllers.ListAddresses(deps.Users, logg))
				r.Post("/addresses", controllers.CreateAddress(deps.Users, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			})
		})
	})

	return r
}
