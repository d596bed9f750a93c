package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rogerio-castellano/inventory-vision/internal/http/handlers"
)

// NewRouter wires the full HTTP surface. Mutating routes sit behind the
// operator token and the per-IP rate limit; reads and health probes do not.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/readyz", handlers.ReadyHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", handlers.IssueTokenHandler)

		r.Get("/products", handlers.GetProductsHandler)
		r.Get("/products/{barcode}", handlers.GetProductByBarcodeHandler)
		r.Get("/products/{barcode}/movements", handlers.GetProductMovementsHandler)
		r.Get("/products/{barcode}/images", handlers.GetProductImagesHandler)

		r.Get("/analytics/top-products", handlers.TopProductsHandler)
		r.Get("/analytics/availability-summary", handlers.AvailabilitySummaryHandler)
		r.Get("/analytics/dashboard", handlers.DashboardHandler)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Use(RateLimitMiddleware)
			r.Post("/registrations", handlers.RegisterProductHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
