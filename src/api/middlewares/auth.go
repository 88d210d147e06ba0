package middlewares

import (
	"context"
	"net/http"

	"portfolio-tracker/src/auth"
	"portfolio-tracker/src/utils"

	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

const (
	missingTokenMessage = "Unauthorized: Missing or invalid token"
	invalidTokenMessage = "Unauthorized: Invalid token"
)

// Authenticate verifies the bearer token of every request and stores the verified
// identity in the request context. Rejected requests never reach next.
func Authenticate(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := utils.LoggerFromContext(r.Context())

			raw := jwtauth.TokenFromHeader(r)
			if raw == "" {
				logger.Debug("request without a bearer token")
				utils.WriteError(w, utils.Unauthorized(missingTokenMessage))
				return
			}

			identity, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.WithError(err).Warn("token rejected")
				utils.WriteError(w, utils.Unauthorized(invalidTokenMessage))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			ctx = utils.WithLogger(ctx, logger.WithField("sub", identity.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by Authenticate.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return identity, ok && identity != nil
}

// WithIdentity stores identity the way Authenticate does.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}
