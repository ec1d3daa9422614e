package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/handlers"
	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/middlewares"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

func newTestServer(t *testing.T, store docstore.Store) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	metrics, err := middlewares.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	products := handlers.NewProductHandler(store, logger)
	orders := handlers.NewOrderHandler(store, logger)

	server := httptest.NewServer(NewMuxWithHandlers(&RouterConfig{
		ListProductsHandler: http.HandlerFunc(products.ListProducts),
		GetProductHandler:   http.HandlerFunc(products.GetProduct),
		CreateOrderHandler:  http.HandlerFunc(orders.CreateOrder),
		HealthHandler:       handlers.NewHealthHandler(store),
		MetricsHandler:      metrics.Handler(),
		Middlewares: []middlewares.Middleware{
			middlewares.NewRequestLogger(logger),
			metrics,
			middlewares.NewRecovery(logger),
		},
	}))
	t.Cleanup(server.Close)

	return server
}

func doRequest(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, buf.String()
}

func TestRouter_Products(t *testing.T) {
	store := docstore.NewMemoryStore()
	server := newTestServer(t, store)

	status, body := doRequest(t, http.MethodGet, server.URL+"/api/products", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	store.Put(handlers.ProductsCollection, "p1", map[string]any{"name": "Mate", "price": 1200})
	store.Put(handlers.ProductsCollection, "p2", map[string]any{"name": "Yerba"})

	status, body = doRequest(t, http.MethodGet, server.URL+"/api/products", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":"p1","name":"Mate","price":1200},{"id":"p2","name":"Yerba"}]`, body)

	for _, id := range []string{"p1", "p2"} {
		status, body = doRequest(t, http.MethodGet, server.URL+"/api/products/"+id, "")
		assert.Equal(t, http.StatusOK, status)

		var product map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &product))
		assert.Equal(t, id, product["id"])
	}

	status, body = doRequest(t, http.MethodGet, server.URL+"/api/products/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Producto no encontrado"}`, body)
}

func TestRouter_CreateOrder(t *testing.T) {
	store := docstore.NewMemoryStore()
	server := newTestServer(t, store)

	status, body := doRequest(t, http.MethodPost, server.URL+"/api/orders", `{"items":[{"sku":"A1","qty":2}]}`)
	assert.Equal(t, http.StatusCreated, status)

	var created handlers.CreateOrderResponse
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "Orden creada exitosamente", created.Message)
	assert.NotEmpty(t, created.OrderID)

	doc, err := store.Get(context.Background(), handlers.OrdersCollection, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"sku": "A1", "qty": int64(2)}}, doc.Data["items"])

	for _, payload := range []string{`{}`, `{"total":5,"note":"x"}`, ``, `not json`} {
		status, body = doRequest(t, http.MethodPost, server.URL+"/api/orders", payload)
		assert.Equal(t, http.StatusBadRequest, status, payload)
		assert.JSONEq(t, `{"error":"Datos de orden requeridos"}`, body)
	}

	docs, err := store.List(context.Background(), handlers.OrdersCollection)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRouter_StoreUnavailable(t *testing.T) {
	server := newTestServer(t, nil)

	cases := map[string]struct {
		method string
		path   string
		body   string
	}{
		"ListProducts": {method: http.MethodGet, path: "/api/products"},
		"GetProduct":   {method: http.MethodGet, path: "/api/products/p1"},
		"CreateOrder":  {method: http.MethodPost, path: "/api/orders", body: `{"items":[]}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := doRequest(t, tc.method, server.URL+tc.path, tc.body)
			assert.Equal(t, http.StatusServiceUnavailable, status)
			assert.JSONEq(t, `{"error":"Servicio no disponible"}`, body)
		})
	}

	status, body := doRequest(t, http.MethodGet, server.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"store":"unavailable"`)
}

func TestRouter_FallbackAndMetrics(t *testing.T) {
	server := newTestServer(t, docstore.NewMemoryStore())

	cases := map[string]struct {
		method string
		path   string
	}{
		"UnknownPath":     {method: http.MethodGet, path: "/api/unknown"},
		"WrongMethod":     {method: http.MethodDelete, path: "/api/products"},
		"OrdersViaGet":    {method: http.MethodGet, path: "/api/orders"},
		"NestedProductID": {method: http.MethodGet, path: "/api/products/p1/reviews"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := doRequest(t, tc.method, server.URL+tc.path, "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.JSONEq(t, `{"error":"Route not found"}`, body)
		})
	}

	status, body := doRequest(t, http.MethodGet, server.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `gts_api_http_requests_total{method="GET",route="unmatched",status="404"}`)
}
