package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/wms/backend/internal/application/order"
	reportapp "github.com/wms/backend/internal/application/report"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/infrastructure/persistence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires the handlers against a real flat-file store under a
// temp directory, so the tests exercise the full request path.
func newTestServer(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "orders.json")
	logger := zap.NewNop()

	var mapping catalog.Mapping
	require.NoError(t, json.Unmarshal([]byte(`{
		"STARTER-KIT": {"products": [
			{"product_name": "Widget"},
			{"product_name": "Power Cable"}
		]}
	}`), &mapping))

	store := persistence.NewFileOrderStore(ordersPath, logger)
	orderSvc := orderapp.NewService(store, logger)
	reportSvc := reportapp.NewService(store, mapping, logger)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewOrderHandler(orderSvc).RegisterRoutes(api)
	NewReportHandler(reportSvc).RegisterRoutes(api)
	return engine, ordersPath
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestOrderHandler_CreateAssignsIDAndPersists(t *testing.T) {
	engine, ordersPath := newTestServer(t)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{
		"customer_name": "Ada",
		"priority": "express",
		"line_items": [{"product_id": "STARTER-KIT", "price": 49.99}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	env := decode(t, w)
	require.True(t, env.Success)

	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "1", created["order_id"])
	assert.Equal(t, "express", created["priority"])
	assert.EqualValues(t, 49.99, created["order_total"])
	items := created["line_items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "LI-1", items[0].(map[string]any)["line_item_id"])

	// The collection file was rewritten
	data, err := os.ReadFile(ordersPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_id": "1"`)
}

func TestOrderHandler_CreateWithoutLineItemsIsRejected(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{"customer_name": "Ada"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_INVALID_INPUT", env.Error.Code)
}

func TestOrderHandler_CreateMalformedJSON(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_INVALID_JSON", env.Error.Code)
}

func TestOrderHandler_ListEmptyStore(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	require.True(t, env.Success)
	assert.Equal(t, "[]", string(env.Data))
}

func TestOrderHandler_GetNotFound(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/orders/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
}

func TestOrderHandler_UpdateMergesShallowly(t *testing.T) {
	engine, _ := newTestServer(t)

	doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{
		"customer_email": "old@example.com",
		"line_items": [{"product_id": "STARTER-KIT", "price": 10}]
	}`)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/orders/1", `{
		"customer_email": "new@example.com",
		"order_id": "999"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &updated))
	// order_id in the payload is ignored; line items and total are untouched
	assert.Equal(t, "1", updated["order_id"])
	assert.Equal(t, "new@example.com", updated["customer_email"])
	assert.EqualValues(t, 10, updated["order_total"])
	assert.Len(t, updated["line_items"].([]any), 1)
}

func TestOrderHandler_UpdateNotFound(t *testing.T) {
	engine, _ := newTestServer(t)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/orders/7", `{"customer_name": "X"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_DeleteReturnsRemovedOrder(t *testing.T) {
	engine, _ := newTestServer(t)

	doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{"line_items": []}`)

	w := doRequest(t, engine, http.MethodDelete, "/api/v1/orders/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var deleted map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &deleted))
	assert.Equal(t, "1", deleted["order_id"])

	// Gone afterwards
	w = doRequest(t, engine, http.MethodGet, "/api/v1/orders/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_Picking(t *testing.T) {
	engine, _ := newTestServer(t)

	doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{
		"line_items": [
			{"product_id": "STARTER-KIT"},
			{"product_id": "STARTER-KIT"},
			{"product_id": "UNKNOWN-KIT"}
		]
	}`)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/reports/picking", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, `[
		{"product_name": "Widget", "quantity": 2},
		{"product_name": "Power Cable", "quantity": 2}
	]`, string(decode(t, w).Data))
}

func TestReportHandler_Packing(t *testing.T) {
	engine, _ := newTestServer(t)

	doRequest(t, engine, http.MethodPost, "/api/v1/orders", `{
		"line_items": [
			{"product_id": "STARTER-KIT", "price": 5},
			{"product_id": "UNKNOWN-KIT"}
		]
	}`)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/reports/packing", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	require.Len(t, view, 1)

	items := view[0]["line_items"].([]any)
	require.Len(t, items, 2)

	mapped := items[0].(map[string]any)
	assert.Len(t, mapped["products"].([]any), 2)

	unmapped := items[1].(map[string]any)
	require.NotNil(t, unmapped["products"])
	assert.Empty(t, unmapped["products"].([]any))
}
