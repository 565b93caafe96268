package api

import (
	"log/slog"
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/billing"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
	"github.com/snuggle-shop/snuggle/internal/repository"
	"github.com/snuggle-shop/snuggle/internal/router"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *middleware.Metrics
	Business *telemetry.BusinessMetrics
	Repo     repository.Querier
	DB       Pinger

	Products domain.ProductService
	Cart     domain.CartService
	Coupons  domain.CouponService
	Checkout domain.CheckoutService
	Orders   domain.OrderService
	Billing  billing.Provider
}

// NewRouter builds the HTTP router with the full middleware stack and
// all API routes.
func NewRouter(deps Deps) *router.Router {
	r := router.New(
		middleware.RequestID,
		middleware.WithUser(deps.Repo),
		middleware.WithRequestLogger(deps.Logger),
		deps.Metrics.Middleware,
		router.Recovery(deps.Logger),
		router.Logger(deps.Logger),
		middleware.Timeout(),
		middleware.MaxBodySize(middleware.SmallMaxBodySize),
	)

	health := NewHealthHandler(deps.DB)
	products := NewProductHandler(deps.Products, deps.Business, deps.Logger)
	cart := NewCartHandler(deps.Cart, deps.Logger)
	coupons := NewCouponHandler(deps.Coupons, deps.Business, deps.Logger)
	checkout := NewCheckoutHandler(deps.Checkout, deps.Business, deps.Logger)
	orders := NewOrderHandler(deps.Orders, deps.Logger)
	payments := NewPaymentHandler(deps.Billing, deps.Orders, deps.Business, deps.Logger)

	r.Get("/health", health.Check)
	r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Catalog
	r.Get("/api/products", products.List)
	r.Get("/api/products/{id}", products.Get)
	r.Post("/api/products", products.Create, middleware.RequireAdmin)
	r.Patch("/api/products/{id}", products.Update, middleware.RequireAdmin)
	r.Get("/api/products/{id}/reviews", products.ListReviews)
	r.Post("/api/products/{id}/reviews", products.AddReview, middleware.RequireUser)

	// Cart
	cartRoutes := r.Group(middleware.RequireUser)
	cartRoutes.Get("/api/cart/summary", cart.Summary)
	cartRoutes.Post("/api/cart/items", cart.AddItem)
	cartRoutes.Patch("/api/cart/items/{id}", cart.UpdateItem)
	cartRoutes.Delete("/api/cart/items/{id}", cart.RemoveItem)
	cartRoutes.Put("/api/cart/settings", cart.UpdateSettings)

	// Redemption endpoints get a strict per-IP rate limit on top of
	// authentication.
	strictLimit := middleware.RateLimit(middleware.StrictRateLimiterConfig())
	r.Post("/api/coupons/apply", coupons.Apply, middleware.RequireUser, strictLimit)
	r.Post("/api/checkout", checkout.PlaceOrder, middleware.RequireUser, strictLimit)

	// Addresses
	r.Get("/api/addresses", orders.ListAddresses, middleware.RequireUser)
	r.Post("/api/addresses", orders.CreateAddress, middleware.RequireUser)

	// Orders
	r.Get("/api/orders", orders.List, middleware.RequireUser)
	r.Get("/api/orders/{id}", orders.Get, middleware.RequireUser)
	r.Patch("/api/orders/{id}/status", orders.UpdateStatus, middleware.RequireAdmin)

	// Payments
	r.Post("/api/payments/intent/{orderID}", payments.CreateIntent, middleware.RequireUser)
	r.Post("/api/payments/webhook", payments.Webhook)

	return r
}
