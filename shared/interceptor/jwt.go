package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
)

type contextKey struct{}

var accessClaimsKey = contextKey{}

// NewJWTInterceptor validates the bearer access token carried in the
// "authorization" metadata of every call except exemptMethods, and stores
// its claims in the handler context.
func NewJWTInterceptor(jwtAuth auth.JWTAuthenticator, exemptMethods []string) grpc.UnaryServerInterceptor {
	exemptMap := make(map[string]bool)
	for _, method := range exemptMethods {
		exemptMap[method] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if exemptMap[info.FullMethod] {
			return handler(ctx, req)
		}

		claims, err := extractAndValidateJWT(ctx, jwtAuth)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}

// ContextWithClaims returns a copy of ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	return context.WithValue(ctx, accessClaimsKey, claims)
}

// ClaimsFromContext returns the access claims stored by NewJWTInterceptor.
func ClaimsFromContext(ctx context.Context) (*auth.AccessClaims, bool) {
	claims, ok := ctx.Value(accessClaimsKey).(*auth.AccessClaims)
	return claims, ok
}

func extractAndValidateJWT(ctx context.Context, jwtAuth auth.JWTAuthenticator) (*auth.AccessClaims, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errors.New("missing metadata")
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return nil, errors.New("missing authorization header")
	}

	tokenString, ok := BearerToken(authHeaders[0])
	if !ok {
		return nil, errors.New("invalid authorization header format")
	}

	claims := &auth.AccessClaims{}
	if err := jwtAuth.Validate(auth.PurposeAccess, tokenString, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
