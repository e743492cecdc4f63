package couchbase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/platform/auth"
	"github.com/voyago/travel-gateway/internal/platform/storage"
)

type BookingsRepo interface {
	ListFlights(ctx context.Context, tenant, username, bearer string) ([]domain.BookedFlight, domain.Context, error)
	BookFlights(ctx context.Context, tenant, username, bearer string, flights []domain.BookedFlight) ([]domain.BookedFlight, domain.Context, error)
}

type BookingsRepoImpl struct {
	cluster storage.Cluster
	secret  string

	randFloat func() float64
	now       func() time.Time
	newID     func() string
}

func NewBookingsRepo(cluster storage.Cluster, secret string) *BookingsRepoImpl {
	return &BookingsRepoImpl{
		cluster:   cluster,
		secret:    secret,
		randFloat: rand.Float64,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ListFlights returns the user's bookings in list order. A user document
// without a bookings field has simply never booked: that is an empty list,
// not an error.
func (r *BookingsRepoImpl) ListFlights(ctx context.Context, tenant, username, bearer string) ([]domain.BookedFlight, domain.Context, error) {
	if !auth.VerifyBearer(bearer, username, r.secret) {
		return nil, nil, domain.ErrInvalidUserToken
	}

	scope := r.cluster.TenantScope(tenant)
	users := scope.Collection("users")
	bookings := scope.Collection("bookings")

	subdoc, err := users.LookupIn(ctx, username, []string{"bookings"})
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, domain.Unavailable("bookings lookup", err)
	}

	flights := []domain.BookedFlight{}
	if subdoc.Exists(0) {
		var ids []string
		if err := subdoc.ContentAt(0, &ids); err != nil {
			return nil, nil, domain.Unavailable("bookings lookup", err)
		}
		for _, id := range ids {
			var flight domain.BookedFlight
			if err := bookings.Get(ctx, id, &flight); err != nil {
				if errors.Is(err, storage.ErrDocumentNotFound) {
					return nil, nil, domain.ErrUserNotFound
				}
				return nil, nil, domain.Unavailable("booking fetch", err)
			}
			flights = append(flights, flight)
		}
	}

	var trace domain.Context
	trace.Add(fmt.Sprintf("KV get - scoped to %s.users: for %d bookings in document %s", scope.Name(), len(flights), username))
	return flights, trace, nil
}

// BookFlights books the first supplied flight selection under a fresh random
// ID, then appends that ID to the user's bookings list. The two writes are
// not transactional: if the append fails after the booking document landed,
// the document is orphaned with no user reference. The append itself is the
// engine's atomic array-append, so concurrent bookings by one user cannot
// clobber each other's list entries.
func (r *BookingsRepoImpl) BookFlights(ctx context.Context, tenant, username, bearer string, flights []domain.BookedFlight) ([]domain.BookedFlight, domain.Context, error) {
	if !auth.VerifyBearer(bearer, username, r.secret) {
		return nil, nil, domain.ErrInvalidUserToken
	}
	if len(flights) == 0 {
		return nil, nil, errors.New("no flights in booking request")
	}

	scope := r.cluster.TenantScope(tenant)
	users := scope.Collection("users")
	bookings := scope.Collection("bookings")

	flight := flights[0]
	flight.FlightTime = int(math.Ceil(r.randFloat() * 8000))
	flight.Price = math.Ceil(float64(flight.FlightTime)/8*100) / 100
	flight.BookedOn = r.now().Format(time.RFC3339)

	id := r.newID()
	if err := bookings.Upsert(ctx, id, flight); err != nil {
		return nil, nil, domain.Unavailable("booking upsert", err)
	}

	if err := users.ArrayAppend(ctx, username, "bookings", id, true); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return nil, nil, domain.ErrUserNotFound
		}
		return nil, nil, domain.Unavailable("bookings append", err)
	}

	var trace domain.Context
	trace.Add(fmt.Sprintf("KV update - scoped to %s.users: for bookings field in document %s", scope.Name(), username))
	return []domain.BookedFlight{flight}, trace, nil
}

var _ BookingsRepo = (*BookingsRepoImpl)(nil)
