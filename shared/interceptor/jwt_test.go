package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
)

func newTestJWTAuth() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator("linkshort", "linkshort", map[auth.TokenPurpose]auth.TokenKey{
		auth.PurposeAccess:  {Secret: "access-secret-access-secret-0000", ExpiresIn: time.Minute},
		auth.PurposeRefresh: {Secret: "refresh-secret-refresh-secret-00", ExpiresIn: time.Hour},
	})
}

func incoming(authorization string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", authorization))
}

func TestJWTInterceptor(t *testing.T) {
	jwtAuth := newTestJWTAuth()

	accessToken, err := jwtAuth.Sign(auth.PurposeAccess, &auth.AccessClaims{AccountID: "acc-1", Roles: []string{"user"}})
	require.NoError(t, err)
	refreshToken, err := jwtAuth.Sign(auth.PurposeRefresh, &auth.RefreshClaims{AccountID: "acc-1"})
	require.NoError(t, err)

	intercept := NewJWTInterceptor(jwtAuth, []string{"/svc/Open"})

	tests := []struct {
		name     string
		ctx      context.Context
		method   string
		wantCode codes.Code
		wantID   string
	}{
		{name: "exempt method without metadata", ctx: context.Background(), method: "/svc/Open", wantCode: codes.OK},
		{name: "missing metadata", ctx: context.Background(), method: "/svc/Closed", wantCode: codes.Unauthenticated},
		{name: "missing header", ctx: metadata.NewIncomingContext(context.Background(), metadata.MD{}), method: "/svc/Closed", wantCode: codes.Unauthenticated},
		{name: "not bearer", ctx: incoming("Basic abc"), method: "/svc/Closed", wantCode: codes.Unauthenticated},
		{name: "refresh token", ctx: incoming("Bearer " + refreshToken), method: "/svc/Closed", wantCode: codes.Unauthenticated},
		{name: "garbage", ctx: incoming("Bearer garbage"), method: "/svc/Closed", wantCode: codes.Unauthenticated},
		{name: "valid access token", ctx: incoming("Bearer " + accessToken), method: "/svc/Closed", wantCode: codes.OK, wantID: "acc-1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			called := false
			var gotID string

			handler := func(ctx context.Context, _ any) (any, error) {
				called = true
				if claims, ok := ClaimsFromContext(ctx); ok {
					gotID = claims.AccountID
				}
				return "ok", nil
			}

			resp, err := intercept(test.ctx, nil, &grpc.UnaryServerInfo{FullMethod: test.method}, handler)
			assert.Equal(t, test.wantCode, status.Code(err))
			if test.wantCode != codes.OK {
				assert.False(t, called)
				return
			}

			assert.Equal(t, "ok", resp)
			assert.Equal(t, test.wantID, gotID)
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = BearerToken("abc")
	assert.False(t, ok)
}
