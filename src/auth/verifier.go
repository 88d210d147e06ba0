package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-tracker/src/utils"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity is the caller established by a verified token. Claims holds every other
// payload value as the issuer sent it; none of them is validated or guaranteed present.
type Identity struct {
	Subject string
	Claims  map[string]any
}

// TokenVerifier turns a raw bearer token into an Identity.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// DefaultClockSkew is the exp and nbf tolerance used when none is configured.
const DefaultClockSkew = 30 * time.Second

// Verifier checks tokens issued by a single issuer. It holds no mutable state.
type Verifier struct {
	keys   KeySource
	issuer string
	skew   time.Duration
	now    func() time.Time
}

type VerifierOption func(*Verifier)

// WithClockSkew sets the tolerance applied to exp and nbf.
func WithClockSkew(d time.Duration) VerifierOption {
	return func(v *Verifier) { v.skew = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(keys KeySource, expectedIssuer string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keys:   keys,
		issuer: expectedIssuer,
		skew:   DefaultClockSkew,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var (
	errMissingKeyID      = errors.New("token header has no kid")
	errKeyWithoutAlg     = errors.New("issuer key declares no alg")
	errAlgorithmMismatch = errors.New("token alg does not match issuer key")
	errMissingSubject    = errors.New("token has no sub")
)

// Verify validates rawToken and returns its identity. Every rejection wraps
// utils.ErrAuthentication, except a failure to obtain keys, which wraps
// utils.ErrKeyResolution.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: empty token", utils.ErrAuthentication)
	}

	// jws drops the provider's error chain, so keep the cause here.
	var keyErr error
	provider := jws.KeyProviderFunc(func(_ context.Context, sink jws.KeySink, sig *jws.Signature, _ *jws.Message) error {
		headers := sig.ProtectedHeaders()
		kid := headers.KeyID()
		if kid == "" {
			keyErr = errMissingKeyID
			return keyErr
		}
		key, err := v.keys.LookupKey(ctx, kid)
		if err != nil {
			keyErr = err
			return err
		}
		alg := key.Algorithm().String()
		if alg == "" {
			keyErr = errKeyWithoutAlg
			return keyErr
		}
		if headers.Algorithm().String() != alg {
			keyErr = fmt.Errorf("%w: %s != %s", errAlgorithmMismatch, headers.Algorithm(), alg)
			return keyErr
		}
		sink.Key(jwa.SignatureAlgorithm(alg), key)
		return nil
	})

	token, err := jwt.Parse([]byte(rawToken),
		jwt.WithKeyProvider(provider),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithRequiredClaim(jwt.SubjectKey),
		jwt.WithAcceptableSkew(v.skew),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		if errors.Is(keyErr, utils.ErrKeyResolution) {
			return nil, keyErr
		}
		if keyErr != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrAuthentication, keyErr)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrAuthentication, err)
	}

	subject := token.Subject()
	if subject == "" {
		return nil, fmt.Errorf("%w: %v", utils.ErrAuthentication, errMissingSubject)
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: decode claims: %v", utils.ErrAuthentication, err)
	}
	delete(claims, jwt.SubjectKey)

	return &Identity{Subject: subject, Claims: claims}, nil
}
