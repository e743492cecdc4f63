package couchbase

import (
	"context"
	"strings"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/platform/storage"
)

const hotelSearchLimit = 100

// searchCols is both the set of fields looked up per hit and the order the
// subdocument results come back in: the first four assemble the address.
var searchCols = []string{"address", "city", "state", "country", "name", "description"}

type HotelsRepo interface {
	FindHotels(ctx context.Context, description, location string) ([]domain.Hotel, domain.Context, error)
}

type HotelsRepoImpl struct {
	cluster storage.Cluster
	index   string
}

func NewHotelsRepo(cluster storage.Cluster, index string) *HotelsRepoImpl {
	return &HotelsRepoImpl{cluster: cluster, index: index}
}

// FindHotels runs a compound full-text query and reassembles each hit from a
// targeted subdocument lookup. A filter of "*" or "" means unconstrained.
func (r *HotelsRepoImpl) FindHotels(ctx context.Context, description, location string) ([]domain.Hotel, domain.Context, error) {
	query := buildHotelQuery(description, location)

	scope := r.cluster.InventoryScope()
	var trace domain.Context
	trace.Add("FTS search - scoped to: " + scope.Name() + ".hotel within fields " + strings.Join(searchCols, ","))

	hits, err := r.cluster.Search(ctx, r.index, query, hotelSearchLimit)
	if err != nil {
		return nil, trace, domain.Unavailable("hotel search", err)
	}

	hotels := []domain.Hotel{}
	collection := scope.Collection("hotel")
	for _, hit := range hits {
		subdoc, err := collection.LookupIn(ctx, hit.ID, searchCols)
		if err != nil {
			return nil, trace, domain.Unavailable("hotel lookup", err)
		}

		var hotel domain.Hotel
		// Address parts that exist get joined; absent fields are skipped
		// rather than erroring.
		parts := []string{}
		for i := 0; i < 4; i++ {
			var v string
			if subdoc.Exists(uint(i)) && subdoc.ContentAt(uint(i), &v) == nil {
				parts = append(parts, v)
			}
		}
		hotel.Address = strings.Join(parts, ", ")

		var name, desc string
		if subdoc.Exists(4) && subdoc.ContentAt(4, &name) == nil {
			hotel.Name = name
		}
		if subdoc.Exists(5) && subdoc.ContentAt(5, &desc) == nil {
			hotel.Description = desc
		}

		hotels = append(hotels, hotel)
	}

	return hotels, trace, nil
}

// buildHotelQuery always anchors the conjunction on the "hotel" category
// term; the engine rejects an empty conjunction.
func buildHotelQuery(description, location string) storage.SearchQuery {
	query := &storage.ConjunctionQuery{}
	query.And(storage.TermQuery{Term: "hotel"})

	if location != "*" && location != "" {
		query.And(storage.DisjunctionQuery{Disjuncts: []storage.SearchQuery{
			storage.MatchPhraseQuery{Phrase: location, Field: "country"},
			storage.MatchPhraseQuery{Phrase: location, Field: "city"},
			storage.MatchPhraseQuery{Phrase: location, Field: "state"},
			storage.MatchPhraseQuery{Phrase: location, Field: "address"},
		}})
	}

	if description != "*" && description != "" {
		query.And(storage.DisjunctionQuery{Disjuncts: []storage.SearchQuery{
			storage.MatchPhraseQuery{Phrase: description, Field: "description"},
			storage.MatchPhraseQuery{Phrase: description, Field: "name"},
		}})
	}

	return query
}

var _ HotelsRepo = (*HotelsRepoImpl)(nil)
