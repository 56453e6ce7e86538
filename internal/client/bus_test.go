package client_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/client"
	"github.com/skylineagle/gstd-go/internal/gstdtest"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

func TestBusClient_Read(t *testing.T) {
	t.Parallel()

	t.Run("returns queued message", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClientWithPipeline(t)
		ctx := context.Background()

		require.True(t, daemon.PostMessage("p1", gstd.BusMessage{Type: "warning", Message: "slow"}))

		message, err := c.Bus().Read(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, "warning", message.Type)
		assert.Equal(t, "slow", message.Message)
		assert.Equal(t, "p1", message.Source)
		assert.NotEmpty(t, message.Raw)
	})

	t.Run("nothing within the timeout", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)
		ctx := context.Background()

		_, err := c.Bus().SetTimeout(ctx, "p1", 10*time.Millisecond)
		require.NoError(t, err)

		message, err := c.Bus().Read(ctx, "p1")
		require.NoError(t, err)
		assert.Nil(t, message)
	})

	t.Run("malformed message", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClientWithPipeline(t)
		daemon.FailNext(gstdtest.Reply{Status: http.StatusOK, Body: `{"code":0,"description":"Success","response":"eos"}`})

		message, err := c.Bus().Read(context.Background(), "p1")
		assert.Nil(t, message)
		AssertClientCode(t, err, gstd.CodeMalformed)
	})

	t.Run("client deadline", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		message, err := c.Bus().Read(ctx, "p1")
		assert.Nil(t, message)
		AssertClientCode(t, err, gstd.CodeTimeout)
	})
}

func TestBusClient_TimeoutWireValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		want    string
	}{
		{name: "two seconds", timeout: 2 * time.Second, want: "2000000000"},
		{name: "zero", timeout: 0, want: "0"},
		{name: "forever", timeout: gstd.WaitForever, want: "-1"},
		{name: "any negative", timeout: -5 * time.Second, want: "-1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c, daemon := NewTestClientWithPipeline(t)

			_, err := c.Bus().SetTimeout(context.Background(), "p1", testCase.timeout)
			require.NoError(t, err)

			requests := daemon.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, "/pipelines/p1/bus/timeout", requests[0].Path)
			assert.Equal(t, testCase.want, requests[0].Query.Get("name"))
		})
	}
}

func TestBusClient_WaitForMessage(t *testing.T) {
	t.Parallel()

	t.Run("three round trips with a timeout", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClientWithPipeline(t)
		daemon.PostMessage("p1", gstd.BusMessage{Type: "warning"})
		daemon.PostMessage("p1", gstd.BusMessage{Type: "eos"})

		message, err := c.Bus().WaitForMessage(context.Background(), "p1", "eos", time.Second)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, "eos", message.Type)

		requests := daemon.Requests()
		require.Len(t, requests, 3)
		assert.Equal(t, "/pipelines/p1/bus/types", requests[0].Path)
		assert.Equal(t, "eos", requests[0].Query.Get("name"))
		assert.Equal(t, "/pipelines/p1/bus/timeout", requests[1].Path)
		assert.Equal(t, "/pipelines/p1/bus/message", requests[2].Path)
		assert.Equal(t, "eos", daemon.BusFilter("p1"))
		assert.Equal(t, time.Second, daemon.BusTimeout("p1"))
	})

	t.Run("zero timeout leaves the bus timeout alone", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClientWithPipeline(t)
		daemon.PostMessage("p1", gstd.BusMessage{Type: "error", Message: "boom"})

		message, err := c.Bus().WaitForMessage(context.Background(), "p1", "error", 0)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, "boom", message.Message)

		requests := daemon.Requests()
		require.Len(t, requests, 2)
		assert.Equal(t, "/pipelines/p1/bus/types", requests[0].Path)
		assert.Equal(t, "/pipelines/p1/bus/message", requests[1].Path)
	})

	t.Run("first failure stops the sequence", func(t *testing.T) {
		t.Parallel()

		c, daemon := NewTestClient(t)

		_, err := c.Bus().WaitForMessage(context.Background(), "ghost", "eos", time.Second)
		assert.True(t, gstd.IsNotFound(err))
		assert.Len(t, daemon.Requests(), 1)
	})

	t.Run("state changes reach the bus", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)
		ctx := context.Background()

		_, err := c.Pipelines().Play(ctx, "p1")
		require.NoError(t, err)

		message, err := c.Bus().WaitForMessage(ctx, "p1", "state_changed", 100*time.Millisecond)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, "null -> playing", message.Message)
	})
}

func TestBusClient_LocalFailures(t *testing.T) {
	t.Parallel()

	RunLocalFailureTests(t, []TestLocalFailure{
		{
			Name: "read without pipeline",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Bus().Read(ctx, "")

				return err
			},
			Code: gstd.CodeNullArgument,
		},
		{
			Name: "filter without value",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Bus().SetFilter(ctx, "p1", "")

				return err
			},
			Code: gstd.CodeNullArgument,
		},
	})
}
