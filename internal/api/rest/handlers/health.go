package handlers

import (
	"net/http"
	"time"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/response"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const healthMessage = "GTS API is running"

// HealthResponse reports liveness and whether the document store is bound.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Store     string `json:"store"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler always answers 200 so the process stays observable without a store.
type HealthHandler struct {
	store docstore.Store
	now   func() time.Time
}

// NewHealthHandler creates a HealthHandler for the given store, which may be nil.
func NewHealthHandler(store docstore.Store) *HealthHandler {
	return &HealthHandler{store: store, now: time.Now}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	storeStatus := "available"
	if h.store == nil {
		storeStatus = "unavailable"
	}

	_ = response.JSONResponse(w, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   healthMessage,
		Store:     storeStatus,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
