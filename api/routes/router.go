package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/controllers"
	"github.com/ShubhamSahu-2005/ezwoods-backend/api/middleware"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/cart"
	checkoutsvc "github.com/ShubhamSahu-2005/ezwoods-backend/internal/checkout"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/orders"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/products"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/reviews"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/wishlist"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
	pkgredis "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    pkgredis.Pinger
	IdemKeys pkgredis.IdempotencyStore
	Registry *prometheus.Registry

	Carts    *cart.Manager
	Products products.Service
	Reviews  reviews.Service
	Wishlist wishlist.Service
	Orders   orders.Service
	Checkout *checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Logger))
		r.Use(middleware.Idempotency(deps.IdemKeys, deps.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, deps.Logger))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, deps.Logger))
			r.Get("/{productId}/reviews", controllers.ReviewList(deps.Reviews, deps.Logger))
			r.Post("/{productId}/reviews", controllers.ReviewCreate(deps.Reviews, deps.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Carts, deps.Checkout, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.Carts, deps.Checkout, deps.Logger))
			r.Post("/items", controllers.CartAddItem(deps.Carts, deps.Products, deps.Checkout, deps.Logger))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Carts, deps.Checkout, deps.Logger))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Carts, deps.Checkout, deps.Logger))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutBegin(deps.Checkout, deps.Logger))
			r.Post("/confirm", controllers.CheckoutConfirm(deps.Checkout, deps.Logger))
			r.Post("/dismiss", controllers.CheckoutDismiss(deps.Checkout, deps.Logger))
			r.Get("/quote", controllers.CheckoutQuote(deps.Checkout, deps.Logger))
			r.Get("/state", controllers.CheckoutState(deps.Checkout, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, deps.Logger))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, deps.Logger))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(deps.Wishlist, deps.Logger))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, deps.Logger))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, deps.Logger))
		})
	})

	return r
}
