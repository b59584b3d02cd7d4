package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockpilot/internal/alert"
	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/export"
	"github.com/andresuchdata/stockpilot/internal/forecast"
	"github.com/andresuchdata/stockpilot/internal/mockdata"
	"github.com/andresuchdata/stockpilot/internal/repository/memory"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/andresuchdata/stockpilot/internal/supplier"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixedForecaster struct{}

func (fixedForecaster) Forecast(ctx context.Context, variant domain.ProductVariant, recentSales []domain.SalesHistoryEntry, promotions []domain.Promotion) forecast.Result {
	return forecast.Result{SalesVelocity: 4, Analysis: "stable"}
}

func (fixedForecaster) ReorderSuggestion(ctx context.Context, p domain.ProcessedProduct) string {
	return "Reorder 100 units."
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds := mockdata.Build(rand.New(rand.NewSource(7)), time.Now())
	repo := memory.NewCatalogRepository(ds)
	composer := service.NewComposer(repo, supplier.NewMockClient(0, 75), fixedForecaster{}, 0)
	svc := service.NewInventoryService(composer, repo, nil, fixedForecaster{}, alert.NewDispatcher(0), service.Options{
		DefaultTier:         domain.TierStarter,
		StarterProductLimit: 3,
	})
	require.NoError(t, svc.Refresh(context.Background()))

	return NewRouter(&Services{InventoryService: svc}, []string{"*"})
}

func do(router *gin.Engine, method, target string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/products?sort_field=name", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listResponse[domain.ProcessedProduct]](t, w)
	require.Equal(t, 5, list.Total)
	assert.Equal(t, "Insulated Water Bottle", list.Data[0].Name)

	w = do(router, http.MethodGet, "/api/v1/products?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/products/visible", nil)
	require.Equal(t, http.StatusOK, w.Code)
	visible := decode[domain.VisibleProducts](t, w)
	assert.Len(t, visible.Products, 3)
	assert.Equal(t, 2, visible.HiddenCount)

	w = do(router, http.MethodGet, "/api/v1/products/prod_404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "not found", body["error"])
	assert.Contains(t, body["details"], "prod_404")
}

func TestRecordSaleAndAdjustment(t *testing.T) {
	router := newTestRouter(t)

	before := decode[domain.ProcessedProduct](t, do(router, http.MethodGet, "/api/v1/products/prod_1", nil))

	w := do(router, http.MethodPost, "/api/v1/products/prod_1/sales", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/products/prod_1/sales", gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	afterSale := decode[domain.ProcessedProduct](t, w)
	assert.Equal(t, before.TotalStock-5, afterSale.TotalStock)

	w = do(router, http.MethodPost, "/api/v1/products/prod_1/adjustments", gin.H{"adjustment": -3, "reason": "Damaged Goods"}, "X-User-Name", "Sam Lee")
	require.Equal(t, http.StatusOK, w.Code)
	afterAdj := decode[domain.ProcessedProduct](t, w)
	assert.Equal(t, before.TotalStock-8, afterAdj.TotalStock)
	last := afterAdj.StockHistory[len(afterAdj.StockHistory)-1]
	assert.Equal(t, "Sam Lee", last.User)
	assert.Equal(t, domain.StockHistoryAdjustment, last.Type)

	w = do(router, http.MethodPost, "/api/v1/products/prod_1/adjustments", gin.H{"adjustment": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProFeatureGating(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "sms", "value": "+15550001111"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = do(router, http.MethodGet, "/api/v1/products/prod_2/reorder_suggestion", nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = do(router, http.MethodPut, "/api/v1/products/prod_2/supplier_mapping", gin.H{
		"supplier_name": "Fit Parts", "supplier_api_url": "https://fitparts.example/api", "supplier_sku": "FP-1",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = do(router, http.MethodPut, "/api/v1/tier", gin.H{"tier": "pro"})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[service.SyncState](t, w)
	assert.Equal(t, domain.TierPro, state.Tier)

	w = do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "sms", "value": "+15550001111"})
	require.Equal(t, http.StatusOK, w.Code)
	setting := decode[domain.AlertSetting](t, w)
	assert.Equal(t, []string{"+15550001111"}, setting.AlertSMSList)

	w = do(router, http.MethodGet, "/api/v1/products/prod_2/reorder_suggestion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	suggestion := decode[domain.ReorderSuggestion](t, w)
	assert.Equal(t, "Reorder 100 units.", suggestion.Suggestion)

	w = do(router, http.MethodPut, "/api/v1/products/prod_2/supplier_mapping", gin.H{
		"supplier_name": "Fit Parts", "supplier_api_url": "https://fitparts.example/api", "supplier_sku": "FP-1", "cost_per_item": "4.20",
	})
	require.Equal(t, http.StatusOK, w.Code)
	mapped := decode[domain.ProcessedProduct](t, w)
	require.NotNil(t, mapped.ExternalInventoryMapping)
	assert.Equal(t, "4.2", mapped.ExternalInventoryMapping.CostPerItem.String())
	assert.Equal(t, 150, mapped.TotalStock)

	w = do(router, http.MethodPut, "/api/v1/tier", gin.H{"tier": "Enterprise"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipientsAndTestAlert(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/api/v1/products/prod_2/test_alert", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Test alert for \"Smart Fitness Tracker\" sent to 1 email(s), 0 SMS, and 0 Slack channel(s)."}`, w.Body.String())

	w = do(router, http.MethodDelete, "/api/v1/products/prod_2/alert_recipients?channel=email&value=owner@momentum.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	setting := decode[domain.AlertSetting](t, w)
	assert.Empty(t, setting.AlertEmailList)

	w = do(router, http.MethodPost, "/api/v1/products/prod_2/test_alert", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No recipients configured for this product.","details":"No recipients configured for this product."}`, w.Body.String())

	w = do(router, http.MethodDelete, "/api/v1/products/prod_2/alert_recipients?channel=email", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipientChannelIsCaseInsensitive(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "Slack", "value": "#general"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	w = do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "SMS", "value": "+15550000000"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	w = do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "EMAIL", "value": "no-at-sign"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "Email", "value": "ops@momentum.com"})
	require.Equal(t, http.StatusOK, w.Code)
	setting := decode[domain.AlertSetting](t, w)
	assert.Equal(t, []string{"owner@momentum.com", "ops@momentum.com"}, setting.AlertEmailList)

	w = do(router, http.MethodPut, "/api/v1/tier", gin.H{"tier": "Pro"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/api/v1/products/prod_2/alert_recipients", gin.H{"channel": "Slack", "value": "#general"})
	require.Equal(t, http.StatusOK, w.Code)
	setting = decode[domain.AlertSetting](t, w)
	assert.Equal(t, []string{"#general"}, setting.AlertSlackList)
	assert.Len(t, setting.AlertEmailList, 2)

	w = do(router, http.MethodDelete, "/api/v1/products/prod_2/alert_recipients?channel=SLACK&value=%23general", nil)
	require.Equal(t, http.StatusOK, w.Code)
	setting = decode[domain.AlertSetting](t, w)
	assert.Empty(t, setting.AlertSlackList)
	assert.Len(t, setting.AlertEmailList, 2)
}

func TestUpdateAlertSetting(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPut, "/api/v1/products/prod_1/alert_setting", gin.H{"reorder_point_units": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPut, "/api/v1/products/prod_1/alert_setting", gin.H{"reorder_point_units": 10000})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[domain.ProcessedProduct](t, w)
	assert.Equal(t, domain.StatusCritical, p.Status)
	assert.Equal(t, 10000, p.AlertSetting.ReorderPointUnits)
}

func TestPurchaseOrderEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/purchase_orders?status=sent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sent := decode[listResponse[domain.PurchaseOrder]](t, w)
	require.Equal(t, 1, sent.Total)
	assert.Equal(t, "po_sent_prod_2", sent.Data[0].ID)

	w = do(router, http.MethodPost, "/api/v1/purchase_orders/po_sent_prod_2/send", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodPost, "/api/v1/purchase_orders/po_sent_prod_2/receive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode[domain.PurchaseOrder](t, w)
	assert.Equal(t, domain.POReceived, order.Status)

	p := decode[domain.ProcessedProduct](t, do(router, http.MethodGet, "/api/v1/products/prod_2", nil))
	assert.Equal(t, 125, p.TotalStock)

	w = do(router, http.MethodPost, "/api/v1/purchase_orders/po_nope/send", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/api/v1/purchase_orders?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesRange(t *testing.T) {
	router := newTestRouter(t)

	today := time.Now().Format("2006-01-02")
	weekAgo := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	w := do(router, http.MethodGet, "/api/v1/products/prod_1/sales?start="+weekAgo+"&end="+today, nil)
	require.Equal(t, http.StatusOK, w.Code)
	series := decode[listResponse[domain.SalesPoint]](t, w)
	assert.NotEmpty(t, series.Data)

	w = do(router, http.MethodGet, "/api/v1/products/prod_1/sales?start="+today+"&end="+weekAgo, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryReport(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/reports/inventory.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="inventory-`))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.ProductsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)
	assert.False(t, allowAll)

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, allowAll)
}
