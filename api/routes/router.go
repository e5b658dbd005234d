package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lukouhub/lukouhub-backend/api/controllers"
	"github.com/lukouhub/lukouhub-backend/api/middleware"
	"github.com/lukouhub/lukouhub-backend/internal/adminauth"
	"github.com/lukouhub/lukouhub-backend/internal/cart"
	"github.com/lukouhub/lukouhub-backend/internal/catalog"
	checkoutsvc "github.com/lukouhub/lukouhub-backend/internal/checkout"
	"github.com/lukouhub/lukouhub-backend/internal/dashboard"
	"github.com/lukouhub/lukouhub-backend/internal/orders"
	"github.com/lukouhub/lukouhub-backend/pkg/config"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
	"github.com/lukouhub/lukouhub-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	adminAuthService adminauth.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}))
	})

	r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{id}", controllers.GetProduct(catalogService, logg))
		})

		r.Get("/orders/{orderId}", controllers.GetOrder(ordersService, logg))

		// Cart and checkout state lives in redis keyed by the session
		// header, so the Session middleware gates these routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(cartService, logg))
				r.Delete("/", controllers.ClearCart(cartService, logg))
				r.Post("/items", controllers.AddCartItem(cartService, logg))
				r.Patch("/items/{index}", controllers.UpdateCartItem(cartService, logg))
				r.Delete("/items/{index}", controllers.RemoveCartItem(cartService, logg))
				r.Post("/promo", controllers.ApplyPromo(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(adminAuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Get("/dashboard", controllers.AdminDashboard(dashboardService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(catalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
				r.Patch("/{id}", controllers.AdminUpdateProduct(catalogService, logg))
				r.Delete("/{id}", controllers.AdminDeleteProduct(catalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
			})
		})
	})

	return r
}
