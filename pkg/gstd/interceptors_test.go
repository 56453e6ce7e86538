package gstd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// Test static errors.
var (
	ErrTestTokenUnavailable = errors.New("token unavailable")
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "debug:"+msg)
}

func (l *recordingLogger) Info(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "info:"+msg)
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "warn:"+msg)
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "error:"+msg)
}

func TestInterceptorChain_Order(t *testing.T) {
	t.Parallel()

	var order []string

	chain := gstd.NewInterceptorChain()
	chain.AddRequestInterceptor(func(context.Context, *gstd.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(context.Context, *gstd.Request) error {
		order = append(order, "second")

		return nil
	})

	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), &gstd.Request{}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	called := false

	chain := gstd.NewInterceptorChain()
	chain.AddRequestInterceptor(gstd.AuthenticationInterceptor(func(context.Context) (string, error) {
		return "", ErrTestTokenUnavailable
	}))
	chain.AddRequestInterceptor(func(context.Context, *gstd.Request) error {
		called = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &gstd.Request{})
	require.ErrorIs(t, err, ErrTestTokenUnavailable)
	assert.False(t, called)
}

func TestHeaderInterceptors(t *testing.T) {
	t.Parallel()

	req := &gstd.Request{}

	require.NoError(t, gstd.HeaderInterceptor(map[string]string{"X-Env": "lab"})(context.Background(), req))
	require.NoError(t, gstd.RequestIDInterceptor()(context.Background(), req))

	assert.Equal(t, "lab", req.Headers.Get("X-Env"))

	id := req.Headers.Get(gstd.RequestIDHeader)
	assert.Len(t, id, 36)

	require.NoError(t, gstd.RequestIDInterceptor()(context.Background(), req))
	assert.Equal(t, id, req.Headers.Get(gstd.RequestIDHeader))
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	limit := gstd.RateLimitInterceptor(1, 1)

	require.NoError(t, limit(context.Background(), &gstd.Request{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.Error(t, limit(ctx, &gstd.Request{}))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	chain := gstd.NewInterceptorChain().WithLogging(logger)
	req := &gstd.Request{Operation: "pipelines.play", Method: "PUT", Path: "/pipelines/p1/state"}

	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), req))
	require.NoError(t, chain.ExecuteResponseInterceptors(context.Background(), req, &gstd.Response{StatusCode: 200}))
	require.NoError(t, chain.ExecuteResponseInterceptors(context.Background(), req, &gstd.Response{
		StatusCode: 404,
		Error:      gstd.NewDaemonError("Resource not found", 8),
	}))

	assert.Equal(t, []string{
		"debug:Daemon Request",
		"debug:Daemon Response",
		"error:Daemon Response Error",
	}, logger.messages)
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()

	collector, err := gstd.NewMetricsCollector(registry)
	require.NoError(t, err)

	_, err = gstd.NewMetricsCollector(registry)
	require.Error(t, err, "registering twice must fail")

	chain := gstd.NewInterceptorChain().WithMetrics(collector)
	ctx := context.Background()

	outcomes := []error{
		nil,
		gstd.NewDaemonError("x", 8),
		gstd.NewClientError("x", gstd.CodeUnreachable),
	}

	for _, outcome := range outcomes {
		req := &gstd.Request{Operation: "bus.read"}
		require.NoError(t, chain.ExecuteRequestInterceptors(ctx, req))
		require.NoError(t, chain.ExecuteResponseInterceptors(ctx, req, &gstd.Response{Error: outcome}))
	}

	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests().WithLabelValues("bus.read", gstd.OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests().WithLabelValues("bus.read", gstd.OutcomeDaemonError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests().WithLabelValues("bus.read", gstd.OutcomeClientError)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(collector.Latency()))
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gstd.OutcomeOK, gstd.OutcomeOf(nil))
	assert.Equal(t, gstd.OutcomeDaemonError, gstd.OutcomeOf(gstd.NewDaemonError("x", 1)))
	assert.Equal(t, gstd.OutcomeClientError, gstd.OutcomeOf(gstd.NewClientError("x", gstd.CodeTimeout)))
}
