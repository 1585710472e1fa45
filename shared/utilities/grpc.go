package utilities

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

var defaultHeadersToForward = []string{
	"Authorization",
	"User-Agent",
	"X-Request-ID",
	"X-Real-IP",
}

// RegisterHealthServer registers the gRPC health service, reporting serviceName
// and the overall server as serving. The returned server is used to flip the
// status on shutdown.
func RegisterHealthServer(grpcServer *grpc.Server, serviceName string) *health.Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return healthServer
}

// ForwardHTTPHeadersToGRPC returns a context whose outgoing gRPC metadata
// carries the request's forwardable headers, so the auth service sees the
// caller's bearer token and request id. Keys are lower-cased as gRPC requires.
func ForwardHTTPHeadersToGRPC(ctx context.Context, r *http.Request, headersToForward ...string) context.Context {
	md := metadata.New(nil)

	seen := make(map[string]bool)
	for _, header := range slices.Concat(defaultHeadersToForward, headersToForward) {
		key := strings.ToLower(header)
		if seen[key] {
			continue
		}
		seen[key] = true

		if values := r.Header.Values(header); len(values) > 0 {
			md.Set(key, values...)
		}
	}

	return metadata.NewOutgoingContext(ctx, md)
}
