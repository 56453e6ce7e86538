package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/client"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

func TestSignalsClient_WaitForSignal(t *testing.T) {
	t.Parallel()

	t.Run("signal fires", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClientWithPipeline(t)

		go func() {
			// Fire once the callback request has reached the daemon.
			for range 50 {
				time.Sleep(10 * time.Millisecond)

				if len(daemon.Requests()) >= 2 {
					daemon.EmitSignal("p1", "fakesink0", "handoff",
						gstd.SignalArgument{Type: "GstFakeSink", Value: json.RawMessage(`"fakesink0"`)})

					return
				}
			}
		}()

		event, err := c.Signals().WaitForSignal(context.Background(), "p1", "fakesink0", "handoff", 2*time.Second)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, "handoff", event.Name)
		require.Len(t, event.Arguments, 1)
		assert.Equal(t, "fakesink0", event.Arguments[0].Text())

		requests := daemon.Requests()
		require.Len(t, requests, 2)
		assert.Equal(t, http.MethodPut, requests[0].Method)
		assert.Equal(t, "/pipelines/p1/elements/fakesink0/signals/handoff/timeout", requests[0].Path)
		assert.Equal(t, "2000000", requests[0].Query.Get("timeout"))
		assert.Equal(t, http.MethodGet, requests[1].Method)
		assert.Equal(t, "/pipelines/p1/elements/fakesink0/signals/handoff/callback", requests[1].Path)
	})

	t.Run("daemon timeout elapses", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)

		event, err := c.Signals().WaitForSignal(context.Background(), "p1", "fakesink0", "handoff", 10*time.Millisecond)
		require.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("unknown signal", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)

		_, err := c.Signals().Connect(context.Background(), "p1", "src", "handoff")
		AssertDaemonCode(t, err, gstd.DaemonCodeNoResource)
	})
}

func TestSignalsClient_TimeoutWireValue(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClientWithPipeline(t)
	ctx := context.Background()

	_, err := c.Signals().SetTimeout(ctx, "p1", "fakesink0", "handoff", 1500*time.Microsecond)
	require.NoError(t, err)

	_, err = c.Signals().SetTimeout(ctx, "p1", "fakesink0", "handoff", gstd.WaitForever)
	require.NoError(t, err)

	requests := daemon.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "1500", requests[0].Query.Get("timeout"))
	assert.Equal(t, "-1", requests[1].Query.Get("timeout"))
}

func TestSignalsClient_Disconnect(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClientWithPipeline(t)

	envelope, err := c.Signals().Disconnect(context.Background(), "p1", "fakesink0", "handoff")
	require.NoError(t, err)
	assert.Equal(t, 0, envelope.Code)

	requests := daemon.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, "/pipelines/p1/elements/fakesink0/signals/handoff/disconnect", requests[0].Path)
}

func TestSignalsClient_LocalFailures(t *testing.T) {
	t.Parallel()

	RunLocalFailureTests(t, []TestLocalFailure{
		{
			Name: "connect without signal",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Signals().Connect(ctx, "p1", "fakesink0", "")

				return err
			},
			Code: gstd.CodeNullArgument,
		},
		{
			Name: "wait without element",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Signals().WaitForSignal(ctx, "p1", "", "handoff", time.Second)

				return err
			},
			Code: gstd.CodeNullArgument,
		},
	})
}
