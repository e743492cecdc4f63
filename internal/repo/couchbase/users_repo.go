package couchbase

import (
	"context"
	"errors"
	"fmt"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/internal/platform/auth"
	"github.com/voyago/travel-gateway/internal/platform/storage"
)

type UsersRepo interface {
	Authenticate(ctx context.Context, tenant, username, password string) (string, domain.Context, error)
	Register(ctx context.Context, tenant, username, password string) (string, domain.Context, error)
}

type UsersRepoImpl struct {
	cluster storage.Cluster
	creds   auth.Credentials
	secret  string
}

func NewUsersRepo(cluster storage.Cluster, creds auth.Credentials, secret string) *UsersRepoImpl {
	return &UsersRepoImpl{cluster: cluster, creds: creds, secret: secret}
}

// Authenticate fetches only the password subfield of the user document and
// compares it to the supplied credential. On success it issues a token bound
// to the username.
func (r *UsersRepoImpl) Authenticate(ctx context.Context, tenant, username, password string) (string, domain.Context, error) {
	scope := r.cluster.TenantScope(tenant)
	users := scope.Collection("users")

	subdoc, err := users.LookupIn(ctx, username, []string{"password"})
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return "", nil, domain.ErrUserNotFound
		}
		return "", nil, domain.Unavailable("user password lookup", err)
	}

	var stored string
	if err := subdoc.ContentAt(0, &stored); err != nil {
		return "", nil, domain.Unavailable("user password lookup", err)
	}
	if !r.creds.Match(password, stored) {
		return "", nil, domain.ErrPasswordMismatch
	}

	token, err := auth.IssueToken(username, r.secret)
	if err != nil {
		return "", nil, domain.Unavailable("token issue", err)
	}

	var trace domain.Context
	trace.Add(fmt.Sprintf("KV get - scoped to %s.users: for password field in document %s", scope.Name(), username))
	return token, trace, nil
}

// Register inserts the new user document atomically; an existing key means
// the username is taken, with no read-before-write race window.
func (r *UsersRepoImpl) Register(ctx context.Context, tenant, username, password string) (string, domain.Context, error) {
	scope := r.cluster.TenantScope(tenant)
	users := scope.Collection("users")

	stored, err := r.creds.Store(password)
	if err != nil {
		return "", nil, domain.Unavailable("credential store", err)
	}

	doc := domain.User{Username: username, Password: stored}
	if err := users.Insert(ctx, username, doc); err != nil {
		if errors.Is(err, storage.ErrDocumentExists) {
			return "", nil, domain.ErrUserAlreadyExists
		}
		return "", nil, domain.Unavailable("user insert", err)
	}

	token, err := auth.IssueToken(username, r.secret)
	if err != nil {
		return "", nil, domain.Unavailable("token issue", err)
	}

	var trace domain.Context
	trace.Add(fmt.Sprintf("KV insert - scoped to %s.users: document %s", scope.Name(), username))
	return token, trace, nil
}

var _ UsersRepo = (*UsersRepoImpl)(nil)
