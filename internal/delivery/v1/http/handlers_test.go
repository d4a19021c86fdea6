package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/expressimports/backend/internal/domain"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/internal/usecase/mocks"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler  http.Handler
	products *mocks.MockProductRepo
	quotes   *mocks.MockQuoteRepo
	orders   *mocks.MockStockOrderRepo
	images   *mocks.MockImages
	sink     *mocks.MockSink
}

func newTestEnv(seed ...domain.Product) *testEnv {
	env := &testEnv{
		products: mocks.NewMockProductRepo(seed...),
		quotes:   mocks.NewMockQuoteRepo(),
		orders:   mocks.NewMockStockOrderRepo(),
		images:   mocks.NewMockImages(),
		sink:     mocks.NewMockSink(),
	}

	log := logger.Nop()
	cache := mocks.NewMockCacheRepo()
	db := mocks.NewMockDB()

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(UseCases{
		Products:     usecase.NewProductUC(env.products, cache, env.images, log),
		Quotes:       usecase.NewQuoteUC(env.products, env.quotes, db, env.sink, time.Second, log),
		StockOrders:  usecase.NewStockOrderUC(env.products, env.orders, cache, db, env.sink, time.Second, log),
		MaxImageSize: 1 << 10,
	}, "/swagger/doc.json")
	env.handler = mux

	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func stocked(id int64, name string, price int64, qty int) domain.Product {
	p := domain.Product{ID: id, Name: name, Category: "electronics", Price: price, OriginalPrice: price, StockQuantity: qty}
	p.RecalcAvailability()
	return p
}

func TestHealthCheck(t *testing.T) {
	rec := newTestEnv().do(t, http.MethodGet, "/api/test", "")

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[HealthResponse](t, rec)
	assert.Equal(t, "online", res.Status)
	assert.Equal(t, "Express Imports Backend", res.Server)
}

func TestCreateProduct_ThenGetAppliesDefaults(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/products", `{"name":"iPhone 15","price":189.99,"category":"electronics","stock_quantity":4}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[CreatedResponse](t, rec)
	assert.Equal(t, msgProductCreated, created.Message)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[ProductResponse](t, rec)

	assert.Equal(t, "189.99", p.Price)
	assert.Equal(t, "246.99", p.OriginalPrice)
	assert.Equal(t, domain.DefaultImageEmoji, p.ImageEmoji)
	assert.True(t, p.InStock)
	assert.Nil(t, p.ImageURL)
}

func TestCreateProduct_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing category", `{"name":"x","price":"10"}`, "missing required fields"},
		{"missing price", `{"name":"x","category":"c"}`, "missing required fields"},
		{"bad price", `{"name":"x","price":"ten","category":"c"}`, "invalid price"},
		{"precision", `{"name":"x","price":"1.999","category":"c"}`, "price must have at most 2 decimal places"},
		{"malformed", `{"name":`, "malformed JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			rec := env.do(t, http.MethodPost, "/api/products", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rec).Error)
			assert.Empty(t, env.products.CreateCalls)
		})
	}
}

func TestGetProduct_NotFoundAndInvalidID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/products/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decode[ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	env := newTestEnv(stocked(1, "Old", 1000, 1))

	rec := env.do(t, http.MethodPut, "/api/products/1", `{"name":"New","price":"12.50","category":"home"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p, _ := env.products.Product(1)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, int64(1250), p.Price)
	assert.False(t, p.InStock)

	rec = env.do(t, http.MethodPut, "/api/products/2", `{"name":"New","price":"12.50","category":"home"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgProductDeleted, decode[MessageResponse](t, rec).Message)

	rec = env.do(t, http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_InStockFilter(t *testing.T) {
	env := newTestEnv(stocked(1, "A", 100, 0), stocked(2, "B", 200, 3))

	rec := env.do(t, http.MethodGet, "/api/products?in_stock=true&category=todos", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]ProductResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, "2.00", list[0].Price)
}

func TestPlaceOrder_StockOfFive(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 5))
	body := `{"customer_name":"Ana","customer_email":"ana@x.com","shipping_address":"Calle 1","items":[{"product_id":1,"quantity":3}]}`

	rec := env.do(t, http.MethodPost, "/api/stock-orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[OrderCreatedResponse](t, rec)
	assert.Equal(t, "30.00", res.Total)
	assert.Equal(t, msgOrderCreated, res.Message)

	rec = env.do(t, http.MethodPost, "/api/stock-orders", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "insufficient stock for P")

	p, _ := env.products.Product(1)
	assert.Equal(t, 2, p.StockQuantity)
	assert.Len(t, env.orders.Orders(), 1)
}

func TestPlaceOrder_EmptyItemsWritesNothing(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 5))

	rec := env.do(t, http.MethodPost, "/api/stock-orders", `{"customer_name":"Ana","customer_email":"ana@x.com","shipping_address":"Calle 1","items":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "items must not be empty", decode[ErrorResponse](t, rec).Error)
	assert.Empty(t, env.orders.Orders())
}

func TestPlaceOrder_OutOfStockProduct(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 0))

	rec := env.do(t, http.MethodPost, "/api/stock-orders", `{"customer_name":"Ana","customer_email":"ana@x.com","shipping_address":"Calle 1","items":[{"product_id":1}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateQuote(t *testing.T) {
	env := newTestEnv(stocked(1, "Drone", 50000, 0))

	rec := env.do(t, http.MethodPost, "/api/quotes", `{"customer_name":"Luis","customer_email":"l@x.com","items":[{"product_id":1,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, msgQuoteCreated, decode[CreatedResponse](t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/quotes", `{"customer_name":"Luis","customer_email":"l@x.com","items":[{"product_id":99}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, env.quotes.Quotes(), 1)

	rec = env.do(t, http.MethodGet, "/api/quotes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]QuoteResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Drone (x2)", list[0].Items)
	assert.Equal(t, "pending", list[0].Status)
}

func TestUpdateStatuses(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 5))
	env.do(t, http.MethodPost, "/api/quotes", `{"customer_name":"L","customer_email":"l@x.com","items":[{"product_id":1}]}`)
	env.do(t, http.MethodPost, "/api/stock-orders", `{"customer_name":"A","customer_email":"a@x.com","shipping_address":"C","items":[{"product_id":1}]}`)

	quoteID := env.quotes.Quotes()[0].ID
	orderID := env.orders.Orders()[0].ID

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/quotes/%d/status", quoteID), `{"status":"quoted"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/quotes/%d/status", quoteID), `{"status":"shipped"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/stock-orders/%d/status", orderID), `{"status":"shipped","tracking_number":"1Z999"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/stock-orders", "")
	list := decode[[]StockOrderResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "shipped", list[0].Status)
	require.NotNil(t, list[0].TrackingNumber)
	assert.Equal(t, "1Z999", *list[0].TrackingNumber)
	assert.Equal(t, "10.00", list[0].Total)

	rec = env.do(t, http.MethodPut, "/api/stock-orders/999/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestProductImage_UploadThenGet(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 5))

	body, ct := multipartBody(t, "image", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/products/1/image", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	got, _ := io.ReadAll(rec.Body)
	assert.Equal(t, pngHeader, got)

	rec = env.do(t, http.MethodGet, "/api/products/1", "")
	p := decode[ProductResponse](t, rec)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "/api/products/1/image", *p.ImageURL)
}

func TestProductImage_Errors(t *testing.T) {
	env := newTestEnv(stocked(1, "P", 1000, 5))

	rec := env.do(t, http.MethodPost, "/api/products/1/image", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, ct := multipartBody(t, "image", bytes.Repeat([]byte{0xff}, 2<<10))
	req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products/1/image", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv()

	preflight := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/stock-orders", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		req.Header.Set("Access-Control-Request-Method", method)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight(http.MethodPost)
	assert.GreaterOrEqual(t, rec.Code, http.StatusOK)
	assert.Less(t, rec.Code, http.StatusMultipleChoices)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Body.String())

	rec = preflight(http.MethodPatch)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSSimpleRequest(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
