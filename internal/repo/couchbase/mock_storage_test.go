package couchbase

import (
	"context"
	"encoding/json"

	"github.com/voyago/travel-gateway/internal/platform/storage"
)

// fakeCluster is an in-memory stand-in for the database capability. Query
// results are scripted per call; KV collections behave like real ones so
// flows can be exercised end to end.
type fakeCluster struct {
	queries    []queryCall
	results    [][]interface{}
	queryErr   error
	searchHits []storage.SearchHit
	searchErr  error

	searchIndex string
	searchQuery storage.SearchQuery
	searchLimit uint32

	scopes    map[string]*fakeScope
	inventory *fakeScope
}

type queryCall struct {
	statement  string
	positional []interface{}
	named      map[string]interface{}
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{scopes: map[string]*fakeScope{}, inventory: newFakeScope("inventory")}
}

func (c *fakeCluster) Query(_ context.Context, statement string, positional []interface{}) (storage.Rows, error) {
	c.queries = append(c.queries, queryCall{statement: statement, positional: positional})
	return c.nextRows()
}

func (c *fakeCluster) QueryNamed(_ context.Context, statement string, named map[string]interface{}) (storage.Rows, error) {
	c.queries = append(c.queries, queryCall{statement: statement, named: named})
	return c.nextRows()
}

func (c *fakeCluster) nextRows() (storage.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	var rows []interface{}
	if i := len(c.queries) - 1; i < len(c.results) {
		rows = c.results[i]
	}
	return &fakeRows{rows: rows}, nil
}

func (c *fakeCluster) Search(_ context.Context, index string, query storage.SearchQuery, limit uint32) ([]storage.SearchHit, error) {
	c.searchIndex = index
	c.searchQuery = query
	c.searchLimit = limit
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.searchHits, nil
}

func (c *fakeCluster) TenantScope(tenant string) storage.Scope {
	if _, ok := c.scopes[tenant]; !ok {
		c.scopes[tenant] = newFakeScope(tenant)
	}
	return c.scopes[tenant]
}

func (c *fakeCluster) InventoryScope() storage.Scope {
	return c.inventory
}

type fakeRows struct {
	rows []interface{}
	idx  int
	err  error
}

func (r *fakeRows) Next(valuePtr interface{}) bool {
	if r.err != nil || r.idx >= len(r.rows) {
		return false
	}
	roundTrip(r.rows[r.idx], valuePtr)
	r.idx++
	return true
}

func (r *fakeRows) Err() error   { return r.err }
func (r *fakeRows) Close() error { return nil }

type fakeScope struct {
	name        string
	collections map[string]*fakeCollection
}

func newFakeScope(name string) *fakeScope {
	return &fakeScope{name: name, collections: map[string]*fakeCollection{}}
}

func (s *fakeScope) Name() string { return s.name }

func (s *fakeScope) Collection(name string) storage.Collection {
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = &fakeCollection{docs: map[string]interface{}{}}
	}
	return s.collections[name]
}

type fakeCollection struct {
	docs map[string]interface{}

	getErr    error
	insertErr error
	upsertErr error
	lookupErr error
	appendErr error
}

func (c *fakeCollection) Get(_ context.Context, key string, valuePtr interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	doc, ok := c.docs[key]
	if !ok {
		return storage.ErrDocumentNotFound
	}
	roundTrip(doc, valuePtr)
	return nil
}

func (c *fakeCollection) Insert(_ context.Context, key string, doc interface{}) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	if _, ok := c.docs[key]; ok {
		return storage.ErrDocumentExists
	}
	c.docs[key] = toMap(doc)
	return nil
}

func (c *fakeCollection) Upsert(_ context.Context, key string, doc interface{}) error {
	if c.upsertErr != nil {
		return c.upsertErr
	}
	c.docs[key] = toMap(doc)
	return nil
}

func (c *fakeCollection) LookupIn(_ context.Context, key string, paths []string) (storage.Subdoc, error) {
	if c.lookupErr != nil {
		return nil, c.lookupErr
	}
	doc, ok := c.docs[key]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}

	m := toMap(doc)
	sub := &fakeSubdoc{}
	for _, p := range paths {
		v, present := m[p]
		if present && v == nil {
			present = false
		}
		sub.values = append(sub.values, v)
		sub.present = append(sub.present, present)
	}
	return sub, nil
}

func (c *fakeCollection) ArrayAppend(_ context.Context, key, path string, value interface{}, createPath bool) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	doc, ok := c.docs[key]
	if !ok {
		return storage.ErrDocumentNotFound
	}

	m := toMap(doc)
	arr, _ := m[path].([]interface{})
	if arr == nil && !createPath {
		return storage.ErrDocumentNotFound
	}
	m[path] = append(arr, value)
	c.docs[key] = m
	return nil
}

type fakeSubdoc struct {
	values  []interface{}
	present []bool
}

func (s *fakeSubdoc) ContentAt(i uint, valuePtr interface{}) error {
	if !s.present[i] {
		return storage.ErrDocumentNotFound
	}
	roundTrip(s.values[i], valuePtr)
	return nil
}

func (s *fakeSubdoc) Exists(i uint) bool {
	return s.present[i]
}

// roundTrip moves a value into the caller's pointer the way the real engine
// does, through JSON.
func roundTrip(src, dst interface{}) {
	b, err := json.Marshal(src)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		panic(err)
	}
}

func toMap(doc interface{}) map[string]interface{} {
	var m map[string]interface{}
	roundTrip(doc, &m)
	return m
}

var _ storage.Cluster = (*fakeCluster)(nil)
