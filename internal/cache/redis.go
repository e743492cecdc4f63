package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyago/travel-gateway/internal/domain"
)

// AirportCache keeps airport search envelopes in Redis. Airports are
// read-only reference data, so a short TTL is safe; the cache is strictly
// best-effort and a caller falls through to the database on any miss or
// error.
type AirportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAirportCache(url string, ttl time.Duration) (*AirportCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &AirportCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

type airportEntry struct {
	Data    []domain.Airport `json:"data"`
	Context domain.Context   `json:"context"`
}

// GetAirports returns the cached envelope for term, or nils on a miss.
func (c *AirportCache) GetAirports(ctx context.Context, term string) ([]domain.Airport, domain.Context, error) {
	data, err := c.client.Get(ctx, airportsKey(term)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var entry airportEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil, err
	}
	return entry.Data, entry.Context, nil
}

func (c *AirportCache) SetAirports(ctx context.Context, term string, airports []domain.Airport, trace domain.Context) error {
	payload, err := json.Marshal(airportEntry{Data: airports, Context: trace})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportsKey(term), payload, c.ttl).Err()
}

func (c *AirportCache) Close() error {
	return c.client.Close()
}

func airportsKey(term string) string {
	return "cache:airports:" + term
}
