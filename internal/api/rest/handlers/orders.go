package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const (
	// MaxOrderBodyBytes caps the size of an order payload.
	MaxOrderBodyBytes = 10 << 20

	orderItemsField = "items"

	orderDataRequiredMessage = "Datos de orden requeridos"
	orderCreatedMessage      = "Orden creada exitosamente"
)

// CreateOrderResponse is returned once an order has been stored.
type CreateOrderResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

// OrderHandler accepts new orders and stores them as submitted.
type OrderHandler struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler. A nil store makes every request answer 503.
func NewOrderHandler(store docstore.Store, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		store:  store,
		logger: logger,
	}
}

// CreateOrder handles POST /api/orders. The body must be a JSON object with an
// "items" key; it is stored verbatim.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := decodeOrder(w, r)
	if !ok {
		response.JSONErrorResponse(w, http.StatusBadRequest, orderDataRequiredMessage)
		return
	}

	if !requireStore(w, h.store) {
		return
	}

	id, err := h.store.Add(r.Context(), OrdersCollection, order)
	if err != nil {
		storeFailure(r.Context(), w, h.logger, "failed to create order", err)
		return
	}

	h.logger.InfoContext(r.Context(), "order created", "order_id", id)
	respond(r.Context(), w, h.logger, http.StatusCreated, CreateOrderResponse{
		Message: orderCreatedMessage,
		OrderID: id,
	})
}

// decodeOrder reads exactly one JSON object from the body. Missing, oversized,
// trailing or non-object input and objects without an items key are rejected.
func decodeOrder(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	if r.Body == nil {
		return nil, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxOrderBodyBytes))
	dec.UseNumber()

	var order map[string]any
	if err := dec.Decode(&order); err != nil || order == nil {
		return nil, false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, false
	}

	if _, ok := order[orderItemsField]; !ok {
		return nil, false
	}

	return docstore.NormalizeNumbers(order).(map[string]any), true
}
