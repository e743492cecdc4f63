package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/http/response"
	"github.com/voyago/travel-gateway/internal/repo/couchbase"
	"github.com/voyago/travel-gateway/pkg/events"
	"github.com/voyago/travel-gateway/pkg/logger"
)

// UserHandler serves the tenant-scoped account and booking endpoints.
// Events is optional; nil disables booking event publication.
type UserHandler struct {
	Users    couchbase.UsersRepo
	Bookings couchbase.BookingsRepo
	Events   events.Publisher
}

func NewUserHandler(users couchbase.UsersRepo, bookings couchbase.BookingsRepo, bus events.Publisher) *UserHandler {
	return &UserHandler{Users: users, Bookings: bookings, Events: bus}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{tenant}/user/login", h.login)
	r.Post("/{tenant}/user/signup", h.signup)
	r.Get("/{tenant}/user/{username}/flights", h.listFlights)
	r.Put("/{tenant}/user/{username}/flights", h.bookFlights)
	return r
}

type credentialsReq struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type tokenData struct {
	Token string `json:"token"`
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.User == "" {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant := strings.ToLower(chi.URLParam(r, "tenant"))
	username := strings.ToLower(in.User)
	ctx := scopedCtx(r.Context(), tenant, username)

	token, trace, err := h.Users.Authenticate(ctx, tenant, username, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, http.StatusOK, tokenData{Token: token}, trace)
}

func (h *UserHandler) signup(w http.ResponseWriter, r *http.Request) {
	var in credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.User == "" {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant := strings.ToLower(chi.URLParam(r, "tenant"))
	username := strings.ToLower(in.User)
	ctx := scopedCtx(r.Context(), tenant, username)

	token, trace, err := h.Users.Register(ctx, tenant, username, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, http.StatusCreated, tokenData{Token: token}, trace)
}

func (h *UserHandler) listFlights(w http.ResponseWriter, r *http.Request) {
	tenant := strings.ToLower(chi.URLParam(r, "tenant"))
	username := strings.ToLower(chi.URLParam(r, "username"))

	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		response.Fail(w, http.StatusUnauthorized, "No token provided")
		return
	}

	ctx := scopedCtx(r.Context(), tenant, username)
	flights, trace, err := h.Bookings.ListFlights(ctx, tenant, username, bearer)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, http.StatusOK, flights, trace)
}

type bookFlightsReq struct {
	Flights []domain.BookedFlight `json:"flights"`
}

type bookFlightsData struct {
	Added []domain.BookedFlight `json:"added"`
}

func (h *UserHandler) bookFlights(w http.ResponseWriter, r *http.Request) {
	tenant := strings.ToLower(chi.URLParam(r, "tenant"))
	username := strings.ToLower(chi.URLParam(r, "username"))

	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		response.Fail(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var in bookFlightsReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := scopedCtx(r.Context(), tenant, username)
	added, trace, err := h.Bookings.BookFlights(ctx, tenant, username, bearer, in.Flights)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if h.Events != nil && len(added) > 0 {
		evt := events.BookingAddedEvent{
			Tenant:   tenant,
			Username: username,
			Flight:   added[0].Flight,
			Name:     added[0].Name,
			Price:    added[0].Price,
			BookedOn: added[0].BookedOn,
		}
		if err := h.Events.Publish(ctx, events.BookingAdded, evt); err != nil {
			logger.WarnContext(ctx, "booking event publish failed", "error", err)
		}
	}

	response.OK(w, http.StatusOK, bookFlightsData{Added: added}, trace)
}

func scopedCtx(ctx context.Context, tenant, username string) context.Context {
	ctx = context.WithValue(ctx, logger.TenantKey, tenant)
	return context.WithValue(ctx, logger.UsernameKey, username)
}
