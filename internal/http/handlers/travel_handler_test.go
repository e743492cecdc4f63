package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/http/handlers"
)

type mockTravelRepo struct {
	airports []domain.Airport
	flights  []domain.Flight
	err      error

	gotTerm  string
	gotFrom  string
	gotTo    string
	gotLeave string
}

func (m *mockTravelRepo) FindAirports(_ context.Context, term string) ([]domain.Airport, domain.Context, error) {
	m.gotTerm = term
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.airports, domain.Context{"N1QL query"}, nil
}

func (m *mockTravelRepo) FindFlightPaths(_ context.Context, from, to, leave string) ([]domain.Flight, domain.Context, error) {
	m.gotFrom, m.gotTo, m.gotLeave = from, to, leave
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.flights, domain.Context{"N1QL query", "N1QL query"}, nil
}

type mockHotelsRepo struct {
	hotels []domain.Hotel
	err    error

	gotDescription string
	gotLocation    string
}

func (m *mockHotelsRepo) FindHotels(_ context.Context, description, location string) ([]domain.Hotel, domain.Context, error) {
	m.gotDescription, m.gotLocation = description, location
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.hotels, domain.Context{"FTS search"}, nil
}

func newTravelRouter(travel *mockTravelRepo, hotels *mockHotelsRepo) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api", handlers.NewTravelHandler(travel, hotels, nil).Routes())
	return r
}

func TestSearchAirports(t *testing.T) {
	travel := &mockTravelRepo{airports: []domain.Airport{{AirportName: "Los Angeles Intl"}}}
	router := newTravelRouter(travel, &mockHotelsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/airports?search=LAX", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if travel.gotTerm != "LAX" {
		t.Errorf("term = %q", travel.gotTerm)
	}

	env := decodeEnvelope(t, rec)
	if len(env.Context) != 1 {
		t.Errorf("context = %v, trace must always be present", env.Context)
	}
	var airports []domain.Airport
	if err := json.Unmarshal(env.Data, &airports); err != nil || len(airports) != 1 {
		t.Fatalf("data = %s", env.Data)
	}
	if airports[0].AirportName != "Los Angeles Intl" {
		t.Errorf("airport = %+v", airports[0])
	}
}

func TestSearchAirportsStorageFailure(t *testing.T) {
	travel := &mockTravelRepo{err: domain.Unavailable("query", context.DeadlineExceeded)}
	router := newTravelRouter(travel, &mockHotelsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/airports?search=LAX", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestSearchFlightPaths(t *testing.T) {
	travel := &mockTravelRepo{flights: []domain.Flight{{Flight: "UA123", SourceAirport: "LAX", DestinationAirport: "SFO"}}}
	router := newTravelRouter(travel, &mockHotelsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/flightPaths/Los%20Angeles%20Intl/San%20Francisco%20Intl?leave=05/15/2021", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	// Route parameters arrive percent-encoded and must be decoded.
	if travel.gotFrom != "Los Angeles Intl" || travel.gotTo != "San Francisco Intl" {
		t.Errorf("from = %q, to = %q", travel.gotFrom, travel.gotTo)
	}
	if travel.gotLeave != "05/15/2021" {
		t.Errorf("leave = %q", travel.gotLeave)
	}

	env := decodeEnvelope(t, rec)
	var flights []domain.Flight
	if err := json.Unmarshal(env.Data, &flights); err != nil || len(flights) != 1 {
		t.Fatalf("data = %s", env.Data)
	}
}

func TestSearchHotels(t *testing.T) {
	hotels := &mockHotelsRepo{hotels: []domain.Hotel{{Name: "Sea View", Address: "1 Front St, Half Moon Bay, United States"}}}
	router := newTravelRouter(&mockTravelRepo{}, hotels)

	req := httptest.NewRequest(http.MethodGet, "/api/hotels/sea%20view/half%20moon%20bay/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if hotels.gotDescription != "sea view" || hotels.gotLocation != "half moon bay" {
		t.Errorf("description = %q, location = %q", hotels.gotDescription, hotels.gotLocation)
	}

	env := decodeEnvelope(t, rec)
	var out []domain.Hotel
	if err := json.Unmarshal(env.Data, &out); err != nil || len(out) != 1 {
		t.Fatalf("data = %s", env.Data)
	}
}

func TestSearchHotelsWildcards(t *testing.T) {
	hotels := &mockHotelsRepo{}
	router := newTravelRouter(&mockTravelRepo{}, hotels)

	req := httptest.NewRequest(http.MethodGet, "/api/hotels/*/*/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if hotels.gotDescription != "*" || hotels.gotLocation != "*" {
		t.Errorf("description = %q, location = %q", hotels.gotDescription, hotels.gotLocation)
	}
}
