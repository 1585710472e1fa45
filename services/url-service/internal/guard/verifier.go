package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vasapolrittideah/linkshort-api/shared/metrics"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstreamUnavailable = errors.New("identity service unavailable")
)

// IdentityVerifier asks the identity authority whether subjectID exists and
// holds every role in roles. A returned error means no verdict was reached.
type IdentityVerifier interface {
	Verify(ctx context.Context, subjectID string, roles []string) (bool, error)
}

type remoteIdentityVerifier struct {
	client  authv1.AuthServiceClient
	timeout time.Duration
}

// NewRemoteIdentityVerifier returns a verifier that calls IsValid on the auth
// service. Each call is bounded by timeout.
func NewRemoteIdentityVerifier(client authv1.AuthServiceClient, timeout time.Duration) IdentityVerifier {
	return &remoteIdentityVerifier{client: client, timeout: timeout}
}

func (v *remoteIdentityVerifier) Verify(ctx context.Context, subjectID string, roles []string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	resp, err := v.client.IsValid(ctx, &authv1.IsValidRequest{UserID: subjectID, Roles: roles})
	metrics.IdentityCheckDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return resp.IsValid, nil
}
