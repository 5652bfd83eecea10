package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"customer-map/internal/domain"
	customerrepo "customer-map/internal/repository/customer"
	customersvc "customer-map/internal/service/customer"
	"customer-map/internal/service/geocode"
	"github.com/gin-gonic/gin"
)

type stubGeocoder struct {
	result *geocode.Result
	err    error
}

func (s *stubGeocoder) Resolve(_ context.Context, _ string) (*geocode.Result, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T, geocoder customersvc.Geocoder) (*gin.Engine, customerrepo.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := customerrepo.NewMemory()
	svc := customersvc.New(repo, geocoder)
	router, err := buildRouter(log.New(io.Discard, "", 0), nil, Deps{CustomerSvc: svc, Geocoder: geocoder})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCustomer(t *testing.T, rec *httptest.ResponseRecorder) domain.Customer {
	t.Helper()
	var c domain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode customer: %v (body %s)", err, rec.Body.String())
	}
	return c
}

func TestCustomerLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, &stubGeocoder{})

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/customers", map[string]string{
		"name": "Ana", "street": "Calle 7", "number": "852", "phone": "221-1234", "lat": "0", "lng": "0",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeCustomer(t, rec)
	if created.ID == "" {
		t.Fatalf("expected generated id, got %+v", created)
	}

	// get returns identical fields
	rec = doJSON(t, router, http.MethodGet, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if got := decodeCustomer(t, rec); got != created {
		t.Fatalf("get mismatch: %+v vs %+v", got, created)
	}

	// partial update changes only the phone
	rec = doJSON(t, router, http.MethodPut, "/api/customers/"+created.ID, map[string]string{"phone": "221-9999"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	updated := decodeCustomer(t, rec)
	if updated.Phone != "221-9999" || updated.Name != "Ana" || updated.Street != "Calle 7" || updated.Number != "852" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	// delete, then gone
	rec = doJSON(t, router, http.MethodDelete, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("delete: expected empty body, got %q", rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestCreateCustomer_ValidationError(t *testing.T) {
	router, repo := newTestRouter(t, &stubGeocoder{})

	rec := doJSON(t, router, http.MethodPost, "/api/customers", map[string]string{
		"street": "Calle 7", "number": "852", "phone": "221-1234", "lat": "0", "lng": "0",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["message"] != "Validation error" || body["errors"] == nil {
		t.Fatalf("expected validation detail, got %v", body)
	}

	// no record created
	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store after rejected create, got %d records", len(all))
	}
}

func TestUpdateCustomer_PresentFieldMustBeNonEmpty(t *testing.T) {
	router, repo := newTestRouter(t, &stubGeocoder{})
	created, err := repo.Create(context.Background(), domain.Customer{
		Name: "Ana", Street: "Calle 7", Number: "852", Phone: "221-1234", Lat: "0", Lng: "0",
	})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}

	rec := doJSON(t, router, http.MethodPut, "/api/customers/"+created.ID, map[string]string{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, &stubGeocoder{})
	rec := doJSON(t, router, http.MethodPut, "/api/customers/nope", map[string]string{"phone": "221-9999"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListCustomers_EmptyIsJSONArray(t *testing.T) {
	router, _ := newTestRouter(t, &stubGeocoder{})
	rec := doJSON(t, router, http.MethodGet, "/api/customers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestSearchCustomers(t *testing.T) {
	router, repo := newTestRouter(t, &stubGeocoder{})
	for _, name := range []string{"Ana García", "Marcos"} {
		if _, err := repo.Create(context.Background(), domain.Customer{
			Name: name, Street: "Calle 7", Number: "852", Phone: "221", Lat: "0", Lng: "0",
		}); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/customers/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing q: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/customers/search?q=ana", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var matches []domain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &matches); err != nil {
		t.Fatalf("decode matches: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Ana García" {
		t.Fatalf("unexpected matches %+v", matches)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/customers/search?q=zzz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("no matches: expected 200 [], got %d %q", rec.Code, rec.Body.String())
	}
}
