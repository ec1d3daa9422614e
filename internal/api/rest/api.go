package rest

import (
	"net/http"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/middlewares"
	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
)

const routeNotFoundMessage = "Route not found"

type RouterConfig struct {
	ListProductsHandler http.Handler
	GetProductHandler   http.Handler
	CreateOrderHandler  http.Handler
	HealthHandler       http.Handler

	// MetricsHandler is optional; /metrics is only routed when it is set.
	MetricsHandler http.Handler

	// Middlewares wrap the whole mux, first entry outermost.
	Middlewares []middlewares.Middleware
}

// NewMuxWithHandlers initializes a new HTTP mux with routes defined by the given RouterConfig.
// Unmatched paths answer with a JSON 404.
func NewMuxWithHandlers(cfg *RouterConfig) http.Handler {
	router := http.NewServeMux()

	router.Handle("GET /api/products", cfg.ListProductsHandler)
	router.Handle("GET /api/products/{product_id}", cfg.GetProductHandler)
	router.Handle("POST /api/orders", cfg.CreateOrderHandler)
	router.Handle("GET /api/health", cfg.HealthHandler)

	if cfg.MetricsHandler != nil {
		router.Handle("GET /metrics", cfg.MetricsHandler)
	}

	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		response.JSONErrorResponse(w, http.StatusNotFound, routeNotFoundMessage)
	})

	return middlewares.Chain(router, cfg.Middlewares...)
}
