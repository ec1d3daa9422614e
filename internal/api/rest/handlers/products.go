package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const (
	ProductIDPathValue = "product_id"

	productNotFoundMessage = "Producto no encontrado"
)

// ProductHandler serves the read-only product catalogue.
type ProductHandler struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewProductHandler creates a ProductHandler. A nil store makes every request answer 503.
func NewProductHandler(store docstore.Store, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		store:  store,
		logger: logger,
	}
}

// ListProducts handles GET /api/products and returns every product with its id.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !requireStore(w, h.store) {
		return
	}

	docs, err := h.store.List(r.Context(), ProductsCollection)
	if err != nil {
		storeFailure(r.Context(), w, h.logger, "failed to list products", err)
		return
	}

	products := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.Merged())
	}

	respond(r.Context(), w, h.logger, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{product_id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if !requireStore(w, h.store) {
		return
	}

	id := r.PathValue(ProductIDPathValue)

	doc, err := h.store.Get(r.Context(), ProductsCollection, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			h.logger.WarnContext(r.Context(), "product not found", "product_id", id)
			response.JSONErrorResponse(w, http.StatusNotFound, productNotFoundMessage)
			return
		}

		storeFailure(r.Context(), w, h.logger, "failed to get product", err, "product_id", id)
		return
	}

	respond(r.Context(), w, h.logger, http.StatusOK, doc.Merged())
}
