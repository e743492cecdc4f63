package couchbase

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/platform/storage"
)

const queryType = "N1QL query - scoped to inventory: "

type TravelRepo interface {
	FindAirports(ctx context.Context, term string) ([]domain.Airport, domain.Context, error)
	FindFlightPaths(ctx context.Context, from, to, leave string) ([]domain.Flight, domain.Context, error)
}

type TravelRepoImpl struct {
	cluster storage.Cluster
	bucket  string

	// randFloat feeds the synthetic flight time so tests can pin it down.
	randFloat func() float64
}

func NewTravelRepo(cluster storage.Cluster, bucket string) *TravelRepoImpl {
	return &TravelRepoImpl{cluster: cluster, bucket: bucket, randFloat: rand.Float64}
}

// FindAirports classifies the search term before building the query: a
// same-case 3-letter term is an FAA code, a same-case 4-letter term an ICAO
// code, anything else a prefix-anchored substring of the airport name.
func (r *TravelRepoImpl) FindAirports(ctx context.Context, term string) ([]domain.Airport, domain.Context, error) {
	statement := "SELECT airportname FROM `" + r.bucket + "`.inventory.airport WHERE "

	sameCase := term == strings.ToLower(term) || term == strings.ToUpper(term)
	var args []interface{}
	switch {
	case sameCase && len(term) == 3:
		statement += "faa=?"
		args = []interface{}{strings.ToUpper(term)}
	case sameCase && len(term) == 4:
		statement += "icao=?"
		args = []interface{}{strings.ToUpper(term)}
	default:
		statement += "POSITION(LOWER(airportname), ?) = 0"
		args = []interface{}{strings.ToLower(term)}
	}

	var trace domain.Context
	trace.Add(queryType + " " + statement)

	rows, err := r.cluster.Query(ctx, statement, args)
	if err != nil {
		return nil, trace, domain.Unavailable("airport query", err)
	}
	defer rows.Close()

	airports := []domain.Airport{}
	for {
		// Fresh value per row: decoding leaves absent fields untouched.
		var row domain.Airport
		if !rows.Next(&row) {
			break
		}
		airports = append(airports, row)
	}
	if err := rows.Err(); err != nil {
		return nil, trace, domain.Unavailable("airport query", err)
	}
	return airports, trace, nil
}

// FindFlightPaths resolves the two display names to FAA codes, then fetches
// the scheduled routes for the weekday of the departure date. An unresolved
// airport name leaves its code empty, so the route query simply matches
// nothing.
func (r *TravelRepoImpl) FindFlightPaths(ctx context.Context, from, to, leave string) ([]domain.Flight, domain.Context, error) {
	var trace domain.Context

	day, err := weekday(leave)
	if err != nil {
		return nil, trace, fmt.Errorf("parse leave date %q: %w", leave, err)
	}

	lookup := "SELECT faa as fromAirport FROM `" + r.bucket + "`.inventory.airport " +
		"WHERE airportname = $1 " +
		"UNION SELECT faa as toAirport FROM `" + r.bucket + "`.inventory.airport " +
		"WHERE airportname = $2"
	trace.Add(queryType + "\n " + lookup)

	rows, err := r.cluster.Query(ctx, lookup, []interface{}{from, to})
	if err != nil {
		return nil, trace, domain.Unavailable("airport lookup query", err)
	}

	var fromFaa, toFaa string
	for {
		var row struct {
			FromAirport *string `json:"fromAirport"`
			ToAirport   *string `json:"toAirport"`
		}
		if !rows.Next(&row) {
			break
		}
		if row.FromAirport != nil {
			fromFaa = *row.FromAirport
		}
		if row.ToAirport != nil {
			toFaa = *row.ToAirport
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, trace, domain.Unavailable("airport lookup query", err)
	}
	rows.Close()

	routes := "SELECT a.name, s.flight, s.utc, r.sourceairport, r.destinationairport, r.equipment " +
		"FROM `" + r.bucket + "`.inventory.route AS r " +
		"UNNEST r.schedule AS s " +
		"JOIN `" + r.bucket + "`.inventory.airline AS a ON KEYS r.airlineid " +
		"WHERE r.sourceairport = $from_faa AND r.destinationairport = $to_faa AND s.day = $day " +
		"ORDER BY a.name ASC "
	trace.Add(queryType + "\n " + routes)

	rows, err = r.cluster.QueryNamed(ctx, routes, map[string]interface{}{
		"from_faa": fromFaa,
		"to_faa":   toFaa,
		"day":      day,
	})
	if err != nil {
		return nil, trace, domain.Unavailable("route query", err)
	}
	defer rows.Close()

	flights := []domain.Flight{}
	for {
		// Fresh value per row: schedule rows can lack fields like equipment,
		// and decoding leaves absent fields untouched.
		var flight domain.Flight
		if !rows.Next(&flight) {
			break
		}
		flight.FlightTime = int(math.Ceil(r.randFloat() * 8000))
		flight.Price = math.Ceil(float64(flight.FlightTime)/8*100) / 100
		flights = append(flights, flight)
	}
	if err := rows.Err(); err != nil {
		return nil, trace, domain.Unavailable("route query", err)
	}
	return flights, trace, nil
}

// weekday parses MM/DD/YYYY and returns the day index the schedule uses
// (Sunday = 0).
func weekday(rawdate string) (int, error) {
	t, err := time.Parse("01/02/2006", rawdate)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

var _ TravelRepo = (*TravelRepoImpl)(nil)
