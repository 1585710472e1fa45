package guard

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
	"github.com/vasapolrittideah/linkshort-api/shared/metrics"
)

const (
	UserIDHeader = "user_id"
	RolesHeader  = "roles"
)

// Identity is the verified caller of a protected request.
type Identity struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

type contextKey struct{}

var identityKey = contextKey{}

// IdentityFromContext returns the identity attached by the guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ContextWithIdentity returns a copy of ctx carrying identity.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Guard authorizes protected requests against the identity authority.
type Guard struct {
	verifier IdentityVerifier
	logger   *zerolog.Logger
}

func NewGuard(verifier IdentityVerifier, logger *zerolog.Logger) *Guard {
	return &Guard{verifier: verifier, logger: logger}
}

// Authorize reads the caller's identity claims from the user_id and roles
// headers and confirms them with the verifier. The user_id header must be
// non-empty and the roles header present; an empty roles value is still sent
// for verification.
func (g *Guard) Authorize(ctx context.Context, header http.Header) (Identity, error) {
	userIDs := header.Values(UserIDHeader)
	roleValues := header.Values(RolesHeader)
	if len(userIDs) == 0 || userIDs[0] == "" || len(roleValues) == 0 {
		return Identity{}, ErrUnauthorized
	}

	identity := Identity{
		UserID: userIDs[0],
		Roles:  ParseRoles(roleValues[0]),
	}

	valid, err := g.verifier.Verify(ctx, identity.UserID, identity.Roles)
	if err != nil {
		return Identity{}, err
	}
	if !valid {
		return Identity{}, ErrUnauthorized
	}

	return identity, nil
}

// ParseRoles splits a comma separated roles header and trims each entry.
// Empty entries are kept so the verifier rejects them.
func ParseRoles(value string) []string {
	roles := strings.Split(value, ",")
	for i, role := range roles {
		roles[i] = strings.TrimSpace(role)
	}

	return roles
}

// Middleware runs Authorize before next and attaches the verified identity to
// the request context.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.Authorize(r.Context(), r.Header)
		if err != nil {
			switch {
			case errors.Is(err, ErrUpstreamUnavailable):
				metrics.GuardDecisions.WithLabelValues("unavailable").Inc()
				g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("identity verification failed")
				httputil.WriteError(w, http.StatusServiceUnavailable, "identity service unavailable")
			default:
				metrics.GuardDecisions.WithLabelValues("deny").Inc()
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			}
			return
		}

		metrics.GuardDecisions.WithLabelValues("allow").Inc()
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}
