package interceptor

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	intercept := NewLoggingInterceptor(&logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}

	_, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "nope")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"method":"/svc/Method"`)
	assert.Contains(t, out, `"code":"NotFound"`)

	buf.Reset()
	resp, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"code":"OK"`)
}
