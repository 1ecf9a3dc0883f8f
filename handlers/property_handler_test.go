package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ferreirogomes/propfolio/handlers"
	"github.com/ferreirogomes/propfolio/models"
	"github.com/ferreirogomes/propfolio/services"
	"github.com/ferreirogomes/propfolio/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store services.PropertyStore) http.Handler {
	propertyService := services.NewPropertyService(store, nil)
	dashboardService := services.NewDashboardService(store)

	return handlers.NewRouter(
		handlers.RouterConfig{CORSOrigins: []string{"http://localhost:3000"}},
		handlers.NewPropertyHandler(propertyService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewHealthHandler(store),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

// TestPropertyLifecycle percorre criação, leitura, atualização e remoção
func TestPropertyLifecycle(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	rr := do(t, r, "POST", "/api/properties",
		`{"title":"Unit 4","type":"Apartment","purchase_price":450000,"owners":[{"name":"A","ownership":100,"income":80000}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Property
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Apartment", created.Type)
	assert.Equal(t, 450000.0, created.PurchasePrice)
	require.Len(t, created.Owners, 1)
	assert.Equal(t, "A", created.Owners[0].Name)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.CreatedAt.After(time.Now()))

	rr = do(t, r, "GET", "/api/admin/dashboard/distribution/type", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var dist models.TypeDistribution
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dist))
	assert.Contains(t, dist.DistributionByType, models.TypeCount{Type: "Apartment", Count: 1})

	rr = do(t, r, "GET", "/api/properties/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched models.Property
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	rr = do(t, r, "GET", "/api/properties", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.Property
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rr = do(t, r, "PUT", "/api/properties/"+created.ID, `{"rent": "2100", "created_at": "1999-01-01"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Property updated"}`, rr.Body.String())

	rr = do(t, r, "GET", "/api/properties/"+created.ID, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, 2100.0, fetched.Rent)
	assert.Equal(t, "Unit 4", fetched.Title)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	// Mesmos valores: o documento existe mas nada muda.
	rr = do(t, r, "PUT", "/api/properties/"+created.ID, `{"rent": 2100}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Property not modified", errorMessage(t, rr))

	rr = do(t, r, "DELETE", "/api/properties/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Property deleted"}`, rr.Body.String())

	rr = do(t, r, "DELETE", "/api/properties/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Property not found", errorMessage(t, rr))

	rr = do(t, r, "GET", "/api/properties/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePropertyWithoutValidOwners(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	rr := do(t, r, "POST", "/api/properties",
		`{"title":"X","owners":[{"name":"","ownership":50,"income":1},{"name":"B","ownership":0,"income":1},{"name":"C","ownership":10,"income":"n/a"}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "At least one valid owner is required", errorMessage(t, rr))

	rr = do(t, r, "GET", "/api/properties", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCreatePropertyFiltersOwners(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	rr := do(t, r, "POST", "/api/properties",
		`{"owners":[{"name":"B","ownership":0,"income":1},{"name":" A ","ownership":"60","income":1},{"name":"C","ownership":40,"income":2}]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Property
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.Owners{
		{Name: "A", Ownership: 60, Income: 1},
		{Name: "C", Ownership: 40, Income: 2},
	}, created.Owners)
}

// TestCreatePropertyDropsMalformedOwners verifica que entradas de tipo errado são descartadas
func TestCreatePropertyDropsMalformedOwners(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	rr := do(t, r, "POST", "/api/properties", `{"title":"Unit 4","owners":[
		{"name":"A","ownership":100,"income":80000},
		{"name":"B","ownership":true,"income":1},
		{"name":"C","ownership":10,"income":{}},
		{"name":7,"ownership":10,"income":1},
		"garbage",
		null
	]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Property
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.Owners{{Name: "A", Ownership: 100, Income: 80000}}, created.Owners)

	rr = do(t, r, "POST", "/api/properties", `{"owners":["garbage",{"name":"B","ownership":true,"income":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "At least one valid owner is required", errorMessage(t, rr))

	rr = do(t, r, "PUT", "/api/properties/"+created.ID, `{"owners":[{"name":"D","ownership":"50","income":1},[1]]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = do(t, r, "GET", "/api/properties/"+created.ID, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.Owners{{Name: "D", Ownership: 50, Income: 1}}, created.Owners)
}

func TestCreatePropertyInvalidBody(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	for _, body := range []string{`{"title":`, `[1,2]`, `{"purchase_price": true}`, `{"loan_term": "thirty"}`} {
		rr := do(t, r, "POST", "/api/properties", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.NotEmpty(t, errorMessage(t, rr), body)
	}
}

func TestCreatePropertyBodyTooLarge(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	body := `{"title":"` + strings.Repeat("x", handlers.MaxBodyBytes) + `"}`
	rr := do(t, r, "POST", "/api/properties", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestMalformedIdentifiers(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	rr := do(t, r, "GET", "/api/properties/not-an-id", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Property not found", errorMessage(t, rr))

	rr = do(t, r, "PUT", "/api/properties/not-an-id", `{"title":"T"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, errorMessage(t, rr), "not a valid property identifier")

	rr = do(t, r, "DELETE", "/api/properties/not-an-id", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = do(t, r, "PUT", "/api/properties/7b0f7f4e-58a4-4b53-9a0e-3f3f8f0f4b11", `{"title":"T"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Property not found", errorMessage(t, rr))
}

func TestUpdatePropertyValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	id, err := store.InsertProperty(context.Background(), models.Property{Title: "T", CreatedAt: time.Now()})
	require.NoError(t, err)
	r := newTestRouter(store)

	rr := do(t, r, "PUT", "/api/properties/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, "PUT", "/api/properties/"+id, `{"owners":[{"name":"","ownership":1,"income":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "At least one valid owner is required", errorMessage(t, rr))
}

func TestTraceIDHeader(t *testing.T) {
	r := newTestRouter(storage.NewMemoryStore())

	req := httptest.NewRequest("GET", "/api/properties", nil)
	req.Header.Set("X-Trace-ID", "0f8fad5b-d9cb-469f-a165-70867728950e")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", rr.Header().Get("X-Trace-ID"))

	rr = do(t, r, "GET", "/api/properties", "")
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) Ping(ctx context.Context) error { return errors.New("connection refused") }

func (failingStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	return nil, errors.New("connection refused")
}

func TestHealthz(t *testing.T) {
	rr := do(t, newTestRouter(storage.NewMemoryStore()), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, newTestRouter(failingStore{storage.NewMemoryStore()}), "GET", "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestStoreFailureIsInternalError(t *testing.T) {
	r := newTestRouter(failingStore{storage.NewMemoryStore()})

	rr := do(t, r, "GET", "/api/properties", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "connection refused", errorMessage(t, rr))
}
