package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/just-aly/tryfit-backend/api/controllers"
	"github.com/just-aly/tryfit-backend/api/middleware"
	"github.com/just-aly/tryfit-backend/internal/cart"
	checkoutsvc "github.com/just-aly/tryfit-backend/internal/checkout"
	"github.com/just-aly/tryfit-backend/internal/notifications"
	"github.com/just-aly/tryfit-backend/internal/orders"
	product "github.com/just-aly/tryfit-backend/internal/products"
	"github.com/just-aly/tryfit-backend/internal/search"
	"github.com/just-aly/tryfit-backend/pkg/config"
	"github.com/just-aly/tryfit-backend/pkg/db"
	"github.com/just-aly/tryfit-backend/pkg/enums"
	"github.com/just-aly/tryfit-backend/pkg/logger"
	"github.com/just-aly/tryfit-backend/pkg/redis"
)

type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Registry      *prometheus.Registry
	Products      product.Service
	Search        search.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessChecks(deps)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))
		})
		r.Get("/search", controllers.Search(deps.Search, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{itemId}/quantity", controllers.CartChangeQuantity(deps.Cart, logg))
				r.Patch("/items/{itemId}/selected", controllers.CartSetSelected(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
				r.Post("/{orderId}/receive", controllers.ReceiveOrder(deps.Orders, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Get("/unread-count", controllers.UnreadNotificationCount(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
				r.Delete("/", controllers.ClearNotifications(deps.Notifications, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/queue", controllers.AdminOrderQueue(deps.Orders, logg))
			r.Post("/{orderId}/pack", controllers.AdminPackOrder(deps.Orders, logg))
			r.Post("/{orderId}/ship", controllers.AdminShipOrder(deps.Orders, logg))
		})
	})

	return r
}

func readinessChecks(deps Deps) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}
