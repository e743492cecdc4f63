package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/travel-gateway/internal/cache"
	"github.com/voyago/travel-gateway/internal/http/response"
	"github.com/voyago/travel-gateway/internal/repo/couchbase"
	"github.com/voyago/travel-gateway/pkg/logger"
)

// TravelHandler serves the read-only reference endpoints: airport search,
// flight path search and hotel search. Airports is an optional read cache;
// nil disables it.
type TravelHandler struct {
	Travel   couchbase.TravelRepo
	Hotels   couchbase.HotelsRepo
	Airports *cache.AirportCache
}

func NewTravelHandler(travel couchbase.TravelRepo, hotels couchbase.HotelsRepo, airports *cache.AirportCache) *TravelHandler {
	return &TravelHandler{Travel: travel, Hotels: hotels, Airports: airports}
}

func (h *TravelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/airports", h.searchAirports)
	r.Get("/flightPaths/{from}/{to}", h.searchFlightPaths)
	r.Get("/hotels/{description}/{location}/", h.searchHotels)
	return r
}

func (h *TravelHandler) searchAirports(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	if h.Airports != nil {
		airports, trace, err := h.Airports.GetAirports(r.Context(), term)
		if err != nil {
			logger.WarnContext(r.Context(), "airport cache read failed", "error", err)
		} else if airports != nil {
			response.OK(w, http.StatusOK, airports, trace)
			return
		}
	}

	airports, trace, err := h.Travel.FindAirports(r.Context(), term)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if h.Airports != nil {
		if err := h.Airports.SetAirports(r.Context(), term, airports, trace); err != nil {
			logger.WarnContext(r.Context(), "airport cache write failed", "error", err)
		}
	}

	response.OK(w, http.StatusOK, airports, trace)
}

func (h *TravelHandler) searchFlightPaths(w http.ResponseWriter, r *http.Request) {
	from := pathParam(r, "from")
	to := pathParam(r, "to")
	leave := r.URL.Query().Get("leave")

	flights, trace, err := h.Travel.FindFlightPaths(r.Context(), from, to, leave)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, http.StatusOK, flights, trace)
}

func (h *TravelHandler) searchHotels(w http.ResponseWriter, r *http.Request) {
	description := pathParam(r, "description")
	location := pathParam(r, "location")

	hotels, trace, err := h.Hotels.FindHotels(r.Context(), description, location)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, http.StatusOK, hotels, trace)
}

// pathParam returns the decoded route parameter; airport names and hotel
// filters arrive percent-encoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
