package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-tracker/src/config"
	"portfolio-tracker/src/utils"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/sirupsen/logrus"
)

// ErrKeyNotFound is returned when the issuer does not publish the requested key id,
// even after a refresh.
var ErrKeyNotFound = errors.New("signing key not found")

// KeySource yields the issuer's verification key for a key id.
type KeySource interface {
	LookupKey(ctx context.Context, kid string) (jwk.Key, error)
}

// KeyResolver fetches the issuer's published key set and keeps it in memory for the
// lifetime of the process. An unknown key id forces one refetch.
type KeyResolver struct {
	jwksURL string
	client  *http.Client
	timeout time.Duration
	ttl     time.Duration
	cache   *utils.Cache[jwk.Set]
	logger  *logrus.Logger
}

type KeyResolverOption func(*KeyResolver)

// WithHTTPClient sets the client used to fetch the key set.
func WithHTTPClient(client *http.Client) KeyResolverOption {
	return func(r *KeyResolver) { r.client = client }
}

// WithFetchTimeout bounds every key set fetch.
func WithFetchTimeout(d time.Duration) KeyResolverOption {
	return func(r *KeyResolver) { r.timeout = d }
}

// WithCacheTTL sets how long a fetched key set is trusted before it is refetched.
func WithCacheTTL(d time.Duration) KeyResolverOption {
	return func(r *KeyResolver) { r.ttl = d }
}

func WithLogger(logger *logrus.Logger) KeyResolverOption {
	return func(r *KeyResolver) { r.logger = logger }
}

// NewKeyResolver builds a resolver for the key set published at issuer + discoveryPath.
// No network access happens until the first lookup.
func NewKeyResolver(issuer, discoveryPath string, opts ...KeyResolverOption) (*KeyResolver, error) {
	if err := config.ValidateIssuerURL(issuer); err != nil {
		return nil, err
	}
	if discoveryPath == "" {
		return nil, fmt.Errorf("%w: empty key discovery path", utils.ErrConfiguration)
	}
	if !strings.HasPrefix(discoveryPath, "/") {
		discoveryPath = "/" + discoveryPath
	}

	r := &KeyResolver{
		jwksURL: strings.TrimRight(issuer, "/") + discoveryPath,
		client:  http.DefaultClient,
		timeout: 5 * time.Second,
		ttl:     time.Hour,
		cache:   utils.NewCache[jwk.Set](),
		logger:  utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// JWKSURL returns the key discovery endpoint.
func (r *KeyResolver) JWKSURL() string {
	return r.jwksURL
}

// Keys returns the cached key set, fetching it when absent or expired.
func (r *KeyResolver) Keys(ctx context.Context) (jwk.Set, error) {
	if set, ok := r.cache.Get(); ok {
		return set, nil
	}
	return r.Refresh(ctx)
}

// Refresh fetches the key set and replaces the cached one.
func (r *KeyResolver) Refresh(ctx context.Context) (jwk.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set, err := jwk.Fetch(ctx, r.jwksURL, jwk.WithHTTPClient(r.client))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", utils.ErrKeyResolution, r.jwksURL, err)
	}
	r.cache.Set(set, r.ttl)
	r.logger.WithFields(logrus.Fields{"url": r.jwksURL, "keys": set.Len()}).Debug("fetched signing keys")
	return set, nil
}

// LookupKey returns the key with id kid.
func (r *KeyResolver) LookupKey(ctx context.Context, kid string) (jwk.Key, error) {
	set, err := r.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}

	// Unknown id: the issuer may have rotated keys since the last fetch.
	set, err = r.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

// StaticKeys is a KeySource over a fixed key set.
type StaticKeys struct {
	Set jwk.Set
}

func (s StaticKeys) LookupKey(_ context.Context, kid string) (jwk.Key, error) {
	if s.Set != nil {
		if key, ok := s.Set.LookupKeyID(kid); ok {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}
