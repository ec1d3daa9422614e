package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const (
	ProductsCollection = "products"
	OrdersCollection   = "orders"

	storeUnavailableMessage = "Servicio no disponible"
)

// requireStore writes a 503 and reports false when the store failed to initialise.
func requireStore(w http.ResponseWriter, store docstore.Store) bool {
	if store == nil {
		response.JSONErrorResponse(w, http.StatusServiceUnavailable, storeUnavailableMessage)
		return false
	}

	return true
}

// respond writes data as JSON and logs values the encoder rejects, such as NaN attributes.
func respond(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	if err := response.JSONResponse(w, status, data); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// storeFailure logs the wrapped store error and answers 500 with the backend's own message.
func storeFailure(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, msg string, err error, attrs ...any) {
	logger.ErrorContext(ctx, msg, append(attrs, "error", err)...)
	response.JSONErrorResponse(w, http.StatusInternalServerError, rootMessage(err))
}

// rootMessage returns the message of the innermost error in a single-wrap chain.
func rootMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
