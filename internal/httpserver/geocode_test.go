package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"customer-map/internal/service/geocode"
)

// stub upstream exercising the real geocode client end to end
func newGeocodeUpstream(t *testing.T, handler http.HandlerFunc) *geocode.Client {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)
	return geocode.NewClient(upstream.Client(), upstream.URL, "La Plata, Argentina", "test")
}

func TestGeocodeEndpoint_MissingAddress(t *testing.T) {
	router, _ := newTestRouter(t, &stubGeocoder{})
	rec := doJSON(t, router, http.MethodGet, "/api/geocode", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/geocode?address=", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty address: expected 400, got %d", rec.Code)
	}
}

func TestGeocodeEndpoint_NoMatch(t *testing.T) {
	client := newGeocodeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	router, _ := newTestRouter(t, client)

	rec := doJSON(t, router, http.MethodGet, "/api/geocode?address=NonexistentPlaceXYZ", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestGeocodeEndpoint_UpstreamError(t *testing.T) {
	client := newGeocodeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	router, _ := newTestRouter(t, client)

	rec := doJSON(t, router, http.MethodGet, "/api/geocode?address=Calle+7+852", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGeocodeEndpoint_Success(t *testing.T) {
	client := newGeocodeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"-34.9205082","lon":"-57.9536219","display_name":"Calle 7 852, La Plata"}]`))
	})
	router, _ := newTestRouter(t, client)

	rec := doJSON(t, router, http.MethodGet, "/api/geocode?address=Calle+7+852", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Lat              float64 `json:"lat"`
		Lng              float64 `json:"lng"`
		FormattedAddress string  `json:"formatted_address"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Lat != -34.9205082 || body.Lng != -57.9536219 || body.FormattedAddress != "Calle 7 852, La Plata" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestCreateGeocoded_Success(t *testing.T) {
	geocoder := &stubGeocoder{result: &geocode.Result{Lat: -34.9205082, Lng: -57.9536219}}
	router, repo := newTestRouter(t, geocoder)

	rec := doJSON(t, router, http.MethodPost, "/api/customers/geocoded", map[string]string{
		"name": "Ana", "street": "Calle 7", "number": "852", "phone": "221-1234",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeCustomer(t, rec)
	if created.Lat != "-34.9205082" || created.Lng != "-57.9536219" {
		t.Fatalf("expected geocoded coordinates, got %+v", created)
	}

	all, err := repo.List(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one stored record, got %d (err %v)", len(all), err)
	}
}

func TestCreateGeocoded_AddressNotFound(t *testing.T) {
	router, repo := newTestRouter(t, &stubGeocoder{err: geocode.ErrNoMatch})

	rec := doJSON(t, router, http.MethodPost, "/api/customers/geocoded", map[string]string{
		"name": "Ana", "street": "Calle Inexistente", "number": "1", "phone": "221-1234",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}

	all, err := repo.List(context.Background())
	if err != nil || len(all) != 0 {
		t.Fatalf("no record may exist after failed geocode, got %d (err %v)", len(all), err)
	}
}

func TestCreateGeocoded_UpstreamUnavailable(t *testing.T) {
	router, _ := newTestRouter(t, &stubGeocoder{err: geocode.ErrUnavailable})

	rec := doJSON(t, router, http.MethodPost, "/api/customers/geocoded", map[string]string{
		"name": "Ana", "street": "Calle 7", "number": "852", "phone": "221-1234",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
