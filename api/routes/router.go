package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relovedmarket/reloved-backend/api/controllers"
	"github.com/relovedmarket/reloved-backend/api/middleware"
	"github.com/relovedmarket/reloved-backend/internal/auth"
	"github.com/relovedmarket/reloved-backend/internal/cart"
	"github.com/relovedmarket/reloved-backend/internal/catalog"
	"github.com/relovedmarket/reloved-backend/internal/orders"
	"github.com/relovedmarket/reloved-backend/internal/sales"
	"github.com/relovedmarket/reloved-backend/pkg/auth/session"
	"github.com/relovedmarket/reloved-backend/pkg/config"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
	"github.com/relovedmarket/reloved-backend/pkg/metrics"
	pkgredis "github.com/relovedmarket/reloved-backend/pkg/redis"
)

// Deps collects everything the router wires together.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionManager session.AccessSessionChecker
	Redis          *pkgredis.Client
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth    auth.Service
	Catalog catalog.Service
	Cart    cart.Service
	Orders  orders.Service
	Sales   sales.Service

	Media controllers.MediaStore
	Health   map[string]controllers.Pinger
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	authController := controllers.NewAuthController(deps.Auth, logg)
	itemsController := controllers.NewItemsController(deps.Catalog, logg)
	cartController := controllers.NewCartController(deps.Cart, logg)
	ordersController := controllers.NewOrdersController(deps.Orders, logg)
	salesController := controllers.NewSalesController(deps.Sales, logg)
	mediaController := controllers.NewMediaController(deps.Media, deps.Orders, cfg.GCS, cfg.Media, logg)

	authn := middleware.Auth(cfg.JWT, deps.SessionManager, logg)
	staff := middleware.RequireRoles(logg, enums.UserRoleStaff, enums.UserRoleAdmin)
	admin := middleware.RequireRoles(logg, enums.UserRoleAdmin)

	loginPolicy := middleware.NewAuthRateLimitPolicy("login",
		cfg.AuthRateLimit.LoginWindow, cfg.AuthRateLimit.LoginIPLimit, cfg.AuthRateLimit.LoginEmailLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register",
		cfg.AuthRateLimit.RegisterWindow, cfg.AuthRateLimit.RegisterIPLimit, cfg.AuthRateLimit.RegisterEmailLimit)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.Metrics(deps.HTTPMetrics))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, deps.Health))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", authController.Register)
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", authController.Login)
			r.Post("/refresh", authController.Refresh)
			r.Post("/logout", authController.Logout)
		})

		// Public catalog browse.
		r.Get("/items", itemsController.List)
		r.Get("/items/{itemId}", itemsController.Get)

		// Customer surface.
		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/cart", cartController.View)
			r.Post("/cart/items", cartController.AddItem)
			r.Delete("/cart/items/{itemId}", cartController.RemoveItem)

			r.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/checkout", ordersController.Checkout)

			r.Get("/orders", ordersController.ListMine)
			r.Get("/orders/{orderId}", ordersController.GetMine)

			r.Post("/media/payment-proof", mediaController.UploadPaymentProof)
		})
	})

	r.Route("/api/staff/v1", func(r chi.Router) {
		r.Use(authn, staff)

		r.Post("/items", itemsController.Create)
		r.Patch("/items/{itemId}", itemsController.Update)
		r.Delete("/items/{itemId}", itemsController.Delete)

		r.Get("/orders", ordersController.ListAll)
		r.Get("/orders/{orderId}", ordersController.GetAny)
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authn, admin)

		r.Post("/orders/{orderId}/transition", ordersController.Transition)
		r.Patch("/orders/{orderId}", ordersController.AdminUpdate)
		r.Get("/orders/{orderId}/payment-proof", mediaController.ViewPaymentProof)
		r.Delete("/orders/{orderId}/payment-proof", mediaController.DeletePaymentProof)

		r.Get("/sales", salesController.List)
		r.Get("/sales/summary", salesController.Summary)
	})

	return r
}
