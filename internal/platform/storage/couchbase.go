package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchbase/gocb/v2"
	gocbsearch "github.com/couchbase/gocb/v2/search"

	"github.com/voyago/travel-gateway/pkg/config"
)

const inventoryScope = "inventory"

// Couchbase implements Cluster on top of a gocb connection. One handle is
// created at startup and shared by every request; gocb clusters are safe for
// concurrent use. Every operation carries a bounded timeout from config —
// the original design had none, so a hung call blocked its request forever.
type Couchbase struct {
	cluster   *gocb.Cluster
	bucket    *gocb.Bucket
	opTimeout time.Duration
}

func Connect(cfg config.CouchbaseConfig) (*Couchbase, error) {
	cluster, err := gocb.Connect("couchbase://"+cfg.Host, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.User,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect couchbase %q: %w", cfg.Host, err)
	}

	bucket := cluster.Bucket(cfg.Bucket)
	if err := bucket.WaitUntilReady(cfg.WaitReady, nil); err != nil {
		return nil, fmt.Errorf("bucket %q not ready: %w", cfg.Bucket, err)
	}

	return &Couchbase{cluster: cluster, bucket: bucket, opTimeout: cfg.OpTimeout}, nil
}

func (c *Couchbase) Close() error {
	return c.cluster.Close(nil)
}

func (c *Couchbase) TenantScope(tenant string) Scope {
	return &cbScope{scope: c.bucket.Scope(tenant), opTimeout: c.opTimeout}
}

func (c *Couchbase) InventoryScope() Scope {
	return &cbScope{scope: c.bucket.Scope(inventoryScope), opTimeout: c.opTimeout}
}

func (c *Couchbase) Query(ctx context.Context, statement string, positional []interface{}) (Rows, error) {
	res, err := c.cluster.Query(statement, &gocb.QueryOptions{
		PositionalParameters: positional,
		Timeout:              c.opTimeout,
		Context:              ctx,
	})
	if err != nil {
		return nil, err
	}
	return &cbRows{res: res}, nil
}

func (c *Couchbase) QueryNamed(ctx context.Context, statement string, named map[string]interface{}) (Rows, error) {
	res, err := c.cluster.Query(statement, &gocb.QueryOptions{
		NamedParameters: named,
		Timeout:         c.opTimeout,
		Context:         ctx,
	})
	if err != nil {
		return nil, err
	}
	return &cbRows{res: res}, nil
}

func (c *Couchbase) Search(ctx context.Context, index string, query SearchQuery, limit uint32) ([]SearchHit, error) {
	res, err := c.cluster.SearchQuery(index, toGocbSearch(query), &gocb.SearchOptions{
		Limit:   limit,
		Timeout: c.opTimeout,
		Context: ctx,
	})
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for res.Next() {
		hits = append(hits, SearchHit{ID: res.Row().ID})
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

func toGocbSearch(q SearchQuery) gocbsearch.Query {
	switch v := q.(type) {
	case TermQuery:
		return gocbsearch.NewTermQuery(v.Term)
	case MatchPhraseQuery:
		return gocbsearch.NewMatchPhraseQuery(v.Phrase).Field(v.Field)
	case ConjunctionQuery:
		conj := gocbsearch.NewConjunctionQuery()
		for _, sub := range v.Conjuncts {
			conj = conj.And(toGocbSearch(sub))
		}
		return conj
	case DisjunctionQuery:
		disj := gocbsearch.NewDisjunctionQuery()
		for _, sub := range v.Disjuncts {
			disj = disj.Or(toGocbSearch(sub))
		}
		return disj
	case *ConjunctionQuery:
		return toGocbSearch(*v)
	case *DisjunctionQuery:
		return toGocbSearch(*v)
	default:
		panic(fmt.Sprintf("unknown search query type %T", q))
	}
}

type cbRows struct {
	res     *gocb.QueryResult
	lastErr error
}

func (r *cbRows) Next(valuePtr interface{}) bool {
	if !r.res.Next() {
		return false
	}
	if err := r.res.Row(valuePtr); err != nil {
		r.lastErr = err
		return false
	}
	return true
}

func (r *cbRows) Err() error {
	if r.lastErr != nil {
		return r.lastErr
	}
	return r.res.Err()
}

func (r *cbRows) Close() error {
	return r.res.Close()
}

type cbScope struct {
	scope     *gocb.Scope
	opTimeout time.Duration
}

func (s *cbScope) Name() string { return s.scope.Name() }

func (s *cbScope) Collection(name string) Collection {
	return &cbCollection{coll: s.scope.Collection(name), opTimeout: s.opTimeout}
}

type cbCollection struct {
	coll      *gocb.Collection
	opTimeout time.Duration
}

func (c *cbCollection) Get(ctx context.Context, key string, valuePtr interface{}) error {
	res, err := c.coll.Get(key, &gocb.GetOptions{Timeout: c.opTimeout, Context: ctx})
	if err != nil {
		return translate(err)
	}
	return res.Content(valuePtr)
}

func (c *cbCollection) Insert(ctx context.Context, key string, doc interface{}) error {
	_, err := c.coll.Insert(key, doc, &gocb.InsertOptions{Timeout: c.opTimeout, Context: ctx})
	return translate(err)
}

func (c *cbCollection) Upsert(ctx context.Context, key string, doc interface{}) error {
	_, err := c.coll.Upsert(key, doc, &gocb.UpsertOptions{Timeout: c.opTimeout, Context: ctx})
	return translate(err)
}

func (c *cbCollection) LookupIn(ctx context.Context, key string, paths []string) (Subdoc, error) {
	specs := make([]gocb.LookupInSpec, 0, len(paths))
	for _, p := range paths {
		specs = append(specs, gocb.GetSpec(p, nil))
	}
	res, err := c.coll.LookupIn(key, specs, &gocb.LookupInOptions{Timeout: c.opTimeout, Context: ctx})
	if err != nil {
		return nil, translate(err)
	}
	return &cbSubdoc{res: res}, nil
}

func (c *cbCollection) ArrayAppend(ctx context.Context, key, path string, value interface{}, createPath bool) error {
	specs := []gocb.MutateInSpec{
		gocb.ArrayAppendSpec(path, value, &gocb.ArrayAppendSpecOptions{CreatePath: createPath}),
	}
	_, err := c.coll.MutateIn(key, specs, &gocb.MutateInOptions{Timeout: c.opTimeout, Context: ctx})
	return translate(err)
}

type cbSubdoc struct {
	res *gocb.LookupInResult
}

func (s *cbSubdoc) ContentAt(i uint, valuePtr interface{}) error {
	return s.res.ContentAt(i, valuePtr)
}

func (s *cbSubdoc) Exists(i uint) bool {
	return s.res.Exists(i)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gocb.ErrDocumentNotFound):
		return ErrDocumentNotFound
	case errors.Is(err, gocb.ErrDocumentExists):
		return ErrDocumentExists
	default:
		return err
	}
}

var _ Cluster = (*Couchbase)(nil)
