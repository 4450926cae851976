package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoponthefly/backend/api/controllers"
	"github.com/shoponthefly/backend/api/middleware"
	"github.com/shoponthefly/backend/internal/auth"
	"github.com/shoponthefly/backend/internal/cart"
	"github.com/shoponthefly/backend/internal/orders"
	"github.com/shoponthefly/backend/internal/products"
	"github.com/shoponthefly/backend/pkg/config"
	"github.com/shoponthefly/backend/pkg/enums"
	"github.com/shoponthefly/backend/pkg/logger"
	"github.com/shoponthefly/backend/pkg/metrics"
	"github.com/shoponthefly/backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	cacheP pinger,
	redisClient *redis.Client,
	authService auth.Service,
	productService products.Service,
	cartService cart.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductGet(productService, logg))
		r.Get("/categories", controllers.CategoryList(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(cartService, logg))
				r.Post("/add", controllers.CartAdd(cartService, logg))
				r.Put("/update", controllers.CartUpdate(cartService, logg))
				r.Delete("/remove/{productId}", controllers.CartRemove(cartService, logg))
				r.Delete("/clear", controllers.CartClear(cartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderPlace(orderService, logg))
				r.Get("/", controllers.OrderList(orderService, logg))
				r.Get("/{orderId}", controllers.OrderGet(orderService, logg))
				r.Put("/{orderId}/status", controllers.OrderUpdateStatus(orderService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/products", controllers.ProductCreate(productService, logg))
				r.Put("/products/{productId}", controllers.ProductUpdate(productService, logg))
				r.Delete("/products/{productId}", controllers.ProductDelete(productService, logg))
			})
		})
	})

	return r
}
