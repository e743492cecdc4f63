package storage

import (
	"context"
	"errors"
)

// Sentinel errors engine implementations translate their own failures to.
// Anything else that comes out of a Collection or Cluster call is an
// unclassified engine failure.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentExists   = errors.New("document already exists")
)

// Cluster is the document-database capability the gateway is built against:
// parameterized relational queries, ranked full-text search, and scoped
// key-value access. A single Cluster handle is shared by all requests and
// must be safe for concurrent use.
type Cluster interface {
	Query(ctx context.Context, statement string, positional []interface{}) (Rows, error)
	QueryNamed(ctx context.Context, statement string, named map[string]interface{}) (Rows, error)
	Search(ctx context.Context, index string, query SearchQuery, limit uint32) ([]SearchHit, error)

	// TenantScope resolves a tenant identifier to its isolated namespace.
	// Collections within one tenant's scope are invisible to every other
	// tenant.
	TenantScope(tenant string) Scope
	InventoryScope() Scope
}

type Scope interface {
	Name() string
	Collection(name string) Collection
}

type Collection interface {
	Get(ctx context.Context, key string, valuePtr interface{}) error
	// Insert is atomic-create: it fails with ErrDocumentExists rather than
	// overwriting.
	Insert(ctx context.Context, key string, doc interface{}) error
	Upsert(ctx context.Context, key string, doc interface{}) error
	// LookupIn reads the given subdocument paths without transferring the
	// whole document.
	LookupIn(ctx context.Context, key string, paths []string) (Subdoc, error)
	// ArrayAppend atomically appends value to the array at path, creating
	// the path first when createPath is set. Implementations must use the
	// engine's single-subpath append, not a whole-document read-modify-write.
	ArrayAppend(ctx context.Context, key, path string, value interface{}, createPath bool) error
}

type Subdoc interface {
	ContentAt(i uint, valuePtr interface{}) error
	Exists(i uint) bool
}

type Rows interface {
	Next(valuePtr interface{}) bool
	Err() error
	Close() error
}

// SearchHit is one ranked full-text hit, identified by document ID.
type SearchHit struct {
	ID string
}
