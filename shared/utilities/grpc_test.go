package utilities

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

func TestForwardHTTPHeadersToGRPC(t *testing.T) {
	r := httptest.NewRequest("GET", "/auth/verification-link", nil)
	r.Header.Set("Authorization", "Bearer abc")
	r.Header.Set("X-Client", "mobile")
	r.Header.Set("Cookie", "refresh_token=secret")

	ctx := ForwardHTTPHeadersToGRPC(context.Background(), r, "X-Client", "authorization")

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer abc"}, md.Get("authorization"))
	assert.Equal(t, []string{"mobile"}, md.Get("x-client"))
	assert.Empty(t, md.Get("cookie"))
	assert.Empty(t, md.Get("user-agent"))
}

func TestRegisterHealthServer(t *testing.T) {
	server := grpc.NewServer()
	healthServer := RegisterHealthServer(server, "auth-service")

	resp, err := healthServer.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "auth-service"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}
