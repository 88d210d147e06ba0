// Package authtest provides a fake token issuer for tests: an RSA signing key, a JWKS
// endpoint served by httptest, and helpers to mint tokens.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const JWKSPath = "/.well-known/jwks.json"

// Issuer is a fake identity provider.
type Issuer struct {
	Server *httptest.Server

	mu      sync.RWMutex
	private map[string]jwk.Key
	public  jwk.Set
	fetches atomic.Int32
	failing atomic.Bool
}

// NewIssuer starts an issuer with one RS256 key named kid. The server is closed
// when the test ends.
func NewIssuer(t testing.TB, kid string) *Issuer {
	t.Helper()
	iss := &Issuer{private: map[string]jwk.Key{}, public: jwk.NewSet()}
	iss.Server = httptest.NewServer(http.HandlerFunc(iss.serveJWKS))
	t.Cleanup(iss.Server.Close)
	iss.AddKey(t, kid, jwa.RS256)
	return iss
}

// URL is the issuer identity expected in the iss claim.
func (i *Issuer) URL() string {
	return i.Server.URL
}

// Fetches counts JWKS requests served.
func (i *Issuer) Fetches() int {
	return int(i.fetches.Load())
}

// SetFailing makes the JWKS endpoint answer 503.
func (i *Issuer) SetFailing(failing bool) {
	i.failing.Store(failing)
}

// AddKey generates an RSA key and publishes its public half. An empty alg
// publishes the key without an alg member.
func (i *Issuer) AddKey(t testing.TB, kid string, alg jwa.SignatureAlgorithm) jwk.Key {
	t.Helper()
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	key, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("wrap rsa key: %v", err)
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		t.Fatalf("set kid: %v", err)
	}
	if alg != "" {
		if err := key.Set(jwk.AlgorithmKey, alg); err != nil {
			t.Fatalf("set alg: %v", err)
		}
	}
	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.private[kid] = key
	if err := i.public.AddKey(pub); err != nil {
		t.Fatalf("add key: %v", err)
	}
	return key
}

// PublicSet returns the published key set.
func (i *Issuer) PublicSet() jwk.Set {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.public
}

func (i *Issuer) serveJWKS(w http.ResponseWriter, r *http.Request) {
	i.fetches.Add(1)
	if r.URL.Path != JWKSPath {
		http.NotFound(w, r)
		return
	}
	if i.failing.Load() {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(i.public)
}

// Claims describes a token to mint. Zero Issuer means the fake issuer's URL; zero
// Expiry means one hour from now; NoExpiry omits exp.
type Claims struct {
	Issuer    string
	Subject   string
	Expiry    time.Duration
	NotBefore time.Duration
	Extra     map[string]any
}

// Sign mints a token signed with the key kid using RS256.
func (i *Issuer) Sign(t testing.TB, kid string, c Claims) string {
	return i.SignWith(t, kid, jwa.RS256, c)
}

// SignWith mints a token signed with key kid and alg in the header.
func (i *Issuer) SignWith(t testing.TB, kid string, alg jwa.SignatureAlgorithm, c Claims) string {
	t.Helper()
	i.mu.RLock()
	key, ok := i.private[kid]
	i.mu.RUnlock()
	if !ok {
		t.Fatalf("unknown kid %q", kid)
	}

	now := time.Now()
	builder := jwt.NewBuilder().IssuedAt(now)
	if c.Issuer == "" {
		builder = builder.Issuer(i.URL())
	} else {
		builder = builder.Issuer(c.Issuer)
	}
	if c.Subject != "" {
		builder = builder.Subject(c.Subject)
	}
	switch c.Expiry {
	case NoExpiry:
	case 0:
		builder = builder.Expiration(now.Add(time.Hour))
	default:
		builder = builder.Expiration(now.Add(c.Expiry))
	}
	if c.NotBefore != 0 {
		builder = builder.NotBefore(now.Add(c.NotBefore))
	}
	for k, v := range c.Extra {
		builder = builder.Claim(k, v)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	headers := jws.NewHeaders()
	if err := headers.Set(jws.KeyIDKey, kid); err != nil {
		t.Fatalf("set kid header: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(alg, key, jws.WithProtectedHeaders(headers)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

// NoExpiry is the Claims.Expiry value that omits the exp claim.
const NoExpiry time.Duration = -1
