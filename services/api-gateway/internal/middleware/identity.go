package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
	"github.com/vasapolrittideah/linkshort-api/shared/interceptor"
)

// Headers the URL service reads the caller's identity claims from.
const (
	UserIDHeader = "user_id"
	RolesHeader  = "roles"
)

// IdentityHeaders validates the bearer access token and replaces any
// client-supplied identity headers with the token's account id and roles.
// Requests without a valid access token are rejected with 401.
func IdentityHeaders(jwtAuth auth.JWTAuthenticator, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(UserIDHeader)
			r.Header.Del(RolesHeader)

			tokenString, ok := interceptor.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			var claims auth.AccessClaims
			if err := jwtAuth.Validate(auth.PurposeAccess, tokenString, &claims); err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected access token")
				httputil.WriteError(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			r.Header.Set(UserIDHeader, claims.AccountID)
			r.Header.Set(RolesHeader, strings.Join(claims.Roles, ","))

			next.ServeHTTP(w, r)
		})
	}
}
