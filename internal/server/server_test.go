package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/mystore/internal/cart"
	"github.com/smallbiznis/mystore/internal/catalog/cache"
	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	draftservice "github.com/smallbiznis/mystore/internal/draft/service"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCatalog struct {
	mu        sync.Mutex
	products  map[string]catalogdomain.Detail
	created   []catalogdomain.CreateRequest
	createErr error
	gets      int
}

func (f *fakeCatalog) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &catalogdomain.Product{ID: "500", Name: req.Name}, nil
}

func (f *fakeCatalog) List(ctx context.Context, categoryID *int64) ([]catalogdomain.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []catalogdomain.ListItem{}
	for _, d := range f.products {
		r, _ := catalogdomain.PriceRangeOf(d.Variants)
		items = append(items, catalogdomain.ListItem{ID: d.ID, Name: d.Name, PriceRange: r})
	}
	return items, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*catalogdomain.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	d, ok := f.products[id]
	if !ok {
		return nil, catalogdomain.ErrNotFound
	}
	return &d, nil
}

func (f *fakeCatalog) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, asset media.Asset) (string, error) {
	if err := media.CheckImage(asset); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + asset.Filename, nil
}

type testServer struct {
	srv     *Server
	catalog *fakeCatalog
	cache   *cache.Reader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fc := &fakeCatalog{products: map[string]catalogdomain.Detail{
		"7": {
			ID:   "7",
			Name: "Linen Shirt",
			Variants: []catalogdomain.Variant{
				{SKU: "LS-S", Size: "S", StockQuantity: 0, Price: 2000},
				{SKU: "LS-M", Size: "M", StockQuantity: 2, Price: 3500},
				{SKU: "LS-L", Size: "L", StockQuantity: 0, Price: 2000},
			},
		},
		"8": {
			ID:       "8",
			Name:     "Sold Out Tee",
			Variants: []catalogdomain.Variant{{SKU: "T-M", Size: "M", StockQuantity: 0, Price: 2500}},
		},
	}}

	reader := cache.NewReader(fc, cache.NewMemoryStore(nil), time.Minute, nil, zap.NewNop())
	categories := config.NewStaticCategoryHolder(config.DefaultCategories())
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	drafts := draftservice.NewManager(draftservice.Params{
		Log:        zap.NewNop(),
		Creator:    reader.WrapCreator(fc),
		Uploader:   fakeUploader{},
		Clock:      clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		GenID:      node,
		Categories: categories,
	})

	srv := NewServer(ServerParams{
		Gin:        NewEngine(observability.Config{}, nil),
		Cfg:        config.Config{HTTPAddr: ":0"},
		Log:        zap.NewNop(),
		Reader:     reader,
		Creator:    reader.WrapCreator(fc),
		Prefetcher: reader,
		Uploader:   fakeUploader{},
		Categories: categories,
		Drafts:     drafts,
	})
	return &testServer{srv: srv, catalog: fc, cache: reader}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)
	return w
}

func (ts *testServer) upload(t *testing.T, path, filename, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("binary"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, w)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "body has no error object: %s", w.Body.String())
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorOf(t, w)["type"])
}

func TestCreateProductErrors(t *testing.T) {
	ts := newTestServer(t)

	ts.catalog.createErr = &catalogdomain.ValidationError{Fields: catalogdomain.FieldErrors{
		"name":           schema.MsgNameTooShort,
		"variants.1.sku": schema.MsgSKURequired,
	}}
	w := ts.do(t, http.MethodPost, "/api/products", catalogdomain.CreateRequest{Name: "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := errorOf(t, w)
	assert.Equal(t, "validation_error", e["type"])
	assert.Equal(t, schema.MsgNameTooShort, e["message"])
	fields := e["errors"].([]any)
	require.Len(t, fields, 2)
	assert.Equal(t, map[string]any{"field": "variants.1.sku", "code": "invalid_sku", "message": schema.MsgSKURequired}, fields[1])

	ts.catalog.createErr = catalogdomain.ErrDuplicateSKU
	w = ts.do(t, http.MethodPost, "/api/products", catalogdomain.CreateRequest{Name: "X"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A variant with this SKU already exists", errorOf(t, w)["message"])

	w = ts.do(t, http.MethodPost, "/api/products", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/products/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsRejectsUnknownCategory(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/products?categoryId=apparel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/products?categoryId=garden", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategoriesFromConfig(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"slug":"apparel","name":"Apparel"},{"id":2,"slug":"accessories","name":"Accessories"}]}`, w.Body.String())
}

func TestUploadEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.upload(t, "/api/uploads", "shirt.png", "image/png")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"url":"https://cdn.example.com/shirt.png"}}`, w.Body.String())

	w = ts.upload(t, "/api/uploads", "notes.txt", "text/plain")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_an_image", errorOf(t, w)["errors"].([]any)[0].(map[string]any)["code"])
}

func TestStoreDetailView(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/store/products/7?size=M", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "€20.00 - €35.00", data["priceLabel"])
	assert.Equal(t, false, data["allOutOfStock"])
	sizes := data["sizes"].([]any)
	require.Len(t, sizes, 3)
	assert.Equal(t, true, sizes[0].(map[string]any)["disabled"])
	assert.Equal(t, false, sizes[1].(map[string]any)["disabled"])
	assert.Equal(t, true, sizes[1].(map[string]any)["selected"])

	w = ts.do(t, http.MethodGet, "/store/products/8", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["allOutOfStock"])
	assert.Equal(t, "€25.00", data["priceLabel"])
}

func TestAddToCart(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/store/cart", addToCartRequest{ProductID: "7"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "size", errorOf(t, w)["errors"].([]any)[0].(map[string]any)["field"])

	w = ts.do(t, http.MethodPost, "/store/cart", addToCartRequest{ProductID: "7", Size: "S"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/store/cart", addToCartRequest{ProductID: "7", Size: "M"},
		&http.Cookie{Name: cart.CookieName, Value: "2"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(3), data["count"])
	assert.Equal(t, "€35.00", data["priceLabel"])
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "3", cookies[0].Value)
}

func TestPrefetchWarmsDetail(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/store/products/7/prefetch", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	ts.cache.Wait()
	assert.Equal(t, 1, ts.catalog.getCount())

	w = ts.do(t, http.MethodGet, "/api/products/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ts.catalog.getCount())
}

func openDraft(t *testing.T, ts *testServer) (string, string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/admin/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	variants := data["variants"].([]any)
	require.Len(t, variants, 1)
	return data["id"].(string), variants[0].(map[string]any)["localId"].(string)
}

func TestDraftSubmitFlow(t *testing.T) {
	ts := newTestServer(t)
	id, row := openDraft(t, ts)
	base := "/admin/drafts/" + id

	w := ts.do(t, http.MethodPost, base+"/submit", submitDraftRequest{Outcome: "reset"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "failed", res["state"])
	errs := res["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "imageUrl1")
	assert.Contains(t, errs, "variants.0.price")

	w = ts.do(t, http.MethodPatch, base, map[string]string{
		"categoryId":  "apparel",
		"name":        "Linen Shirt",
		"description": "Breathable",
		"imageAlt":    "A shirt",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPatch, base+"/variants/"+row, map[string]string{
		"size": "M", "sku": "LS-M", "price": "3500", "stockQuantity": "2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.upload(t, base+"/images/1", "shirt.png", "image/png")
	require.Equal(t, http.StatusOK, w.Code)
	image := decode(t, w)["data"].(map[string]any)["image"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/shirt.png", image["url"])

	w = ts.do(t, http.MethodPost, base+"/submit", submitDraftRequest{Outcome: "reset"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	res = body["data"].(map[string]any)
	assert.Equal(t, "succeeded_reset", res["state"])
	assert.Empty(t, res["errors"])
	draft := body["draft"].(map[string]any)
	assert.Equal(t, draftservice.MsgCreated, draft["ack"])
	assert.Empty(t, draft["name"])
	assert.Nil(t, draft["image"])
	assert.NotEqual(t, row, draft["variants"].([]any)[0].(map[string]any)["localId"])

	require.Len(t, ts.catalog.created, 1)
	assert.Equal(t, int64(1), ts.catalog.created[0].CategoryID)
	assert.Equal(t, float64(3500), ts.catalog.created[0].Variants[0].Price)

	w = ts.do(t, http.MethodDelete, base+"/ack", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDraftVariantRoutes(t *testing.T) {
	ts := newTestServer(t)
	id, first := openDraft(t, ts)
	base := "/admin/drafts/" + id

	w := ts.do(t, http.MethodDelete, base+"/variants/"+first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].(map[string]any)["variants"], 1)

	w = ts.do(t, http.MethodPost, base+"/variants", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	second := body["localId"].(string)
	variants := body["data"].(map[string]any)["variants"].([]any)
	require.Len(t, variants, 2)
	assert.Equal(t, "2", variants[1].(map[string]any)["sortOrder"])

	w = ts.do(t, http.MethodDelete, base+"/variants/"+first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	variants = decode(t, w)["data"].(map[string]any)["variants"].([]any)
	require.Len(t, variants, 1)
	assert.Equal(t, second, variants[0].(map[string]any)["localId"])

	w = ts.do(t, http.MethodPatch, base+"/variants/"+second, map[string]string{"color": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodPatch, base+"/variants/not-an-id", map[string]string{"sku": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodPatch, base, map[string]string{"price": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftTransportFailureNotice(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.createErr = &catalogdomain.APIError{Status: 502}
	id, row := openDraft(t, ts)
	base := "/admin/drafts/" + id

	ts.do(t, http.MethodPatch, base, map[string]string{
		"categoryId": "1", "name": "Tote", "description": "Canvas", "imageAlt": "A tote",
	})
	ts.do(t, http.MethodPatch, base+"/variants/"+row, map[string]string{"size": "One", "sku": "TOTE", "price": "1500"})
	ts.upload(t, base+"/images/1", "tote.png", "image/png")

	w := ts.do(t, http.MethodPost, base+"/submit", submitDraftRequest{Outcome: "terminal"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	res := body["data"].(map[string]any)
	assert.Equal(t, "editing", res["state"])
	assert.Equal(t, catalogdomain.MsgCreateFailed, res["notice"])
	assert.Empty(t, res["errors"])
	assert.Equal(t, "Tote", body["draft"].(map[string]any)["name"])
}

func TestDraftCancelAndClose(t *testing.T) {
	ts := newTestServer(t)
	id, _ := openDraft(t, ts)
	base := "/admin/drafts/" + id

	w := ts.do(t, http.MethodPost, base+"/cancel", cancelDraftRequest{Confirm: false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"discarded":false,"prompt":"Are you sure you want to discard all changes?"}}`, w.Body.String())

	w = ts.do(t, http.MethodPost, base+"/cancel", cancelDraftRequest{Confirm: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"discarded":true}}`, w.Body.String())

	w = ts.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id, _ = openDraft(t, ts)
	w = ts.do(t, http.MethodDelete, "/admin/drafts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, "/admin/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftRequestsLogDraftID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ts := newTestServer(t)
	id, _ := openDraft(t, ts)
	w := ts.do(t, http.MethodGet, "/admin/drafts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	requests := logs.FilterMessage("http_request")
	got := requests.FilterField(zap.String("route", "/admin/drafts/:id")).All()
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ContextMap()["draft_id"])

	opened := requests.FilterField(zap.String("route", "/admin/drafts")).All()
	require.Len(t, opened, 1)
	assert.NotContains(t, opened[0].ContextMap(), "draft_id")
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(catalogdomain.ErrSizeRequired)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "size_required", code)

	typ, code = classifyErrorForLog(catalogdomain.ErrDuplicateSKU)
	assert.Equal(t, "conflict", typ)
	assert.Equal(t, "conflict", code)
}
