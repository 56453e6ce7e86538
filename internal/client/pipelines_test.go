package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/client"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestPipelinesClient_Lifecycle(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClient(t)
	ctx := context.Background()

	names, err := c.Pipelines().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	envelope, err := c.Pipelines().Create(ctx, "p1", testDescription)
	require.NoError(t, err)
	assert.Equal(t, 0, envelope.Code)
	assert.Equal(t, "Success", envelope.Description)

	names, err = c.Pipelines().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, names)

	again, err := c.Pipelines().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, names, again)

	_, err = c.Pipelines().Play(ctx, "p1")
	require.NoError(t, err)

	state, ok := daemon.State("p1")
	require.True(t, ok)
	assert.Equal(t, gstd.StatePlaying, state)

	property, err := c.Elements().Get(ctx, "p1", "x264enc0", "bitrate")
	require.NoError(t, err)
	assert.NotEmpty(t, property.Text())

	_, err = c.Pipelines().Pause(ctx, "p1")
	require.NoError(t, err)

	state, _ = daemon.State("p1")
	assert.Equal(t, gstd.StatePaused, state)

	_, err = c.Pipelines().Stop(ctx, "p1")
	require.NoError(t, err)

	state, _ = daemon.State("p1")
	assert.Equal(t, gstd.StateNull, state)

	_, err = c.Pipelines().Delete(ctx, "p1")
	require.NoError(t, err)

	names, err = c.Pipelines().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = c.Pipelines().Delete(ctx, "p1")
	require.Error(t, err)
	assert.True(t, gstd.IsNotFound(err), "second delete: %v", err)
}

func TestPipelinesClient_Wire(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClientWithPipeline(t)
	ctx := context.Background()

	_, err := c.Pipelines().Play(ctx, "p1")
	require.NoError(t, err)

	_, err = c.Pipelines().Delete(ctx, "p1")
	require.NoError(t, err)

	requests := daemon.Requests()
	require.Len(t, requests, 2)

	assert.Equal(t, http.MethodPut, requests[0].Method)
	assert.Equal(t, "/pipelines/p1/state", requests[0].Path)
	assert.Equal(t, "playing", requests[0].Query.Get("name"))

	assert.Equal(t, http.MethodDelete, requests[1].Method)
	assert.Equal(t, "/pipelines", requests[1].Path)
	assert.Equal(t, "p1", requests[1].Query.Get("name"))
}

func TestPipelinesClient_DaemonErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClientWithPipeline(t)

		_, err := c.Pipelines().Create(context.Background(), "p1", testDescription)
		AssertDaemonCode(t, err, gstd.DaemonCodeExistingResource)
		assert.True(t, gstd.IsConflict(err))
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClient(t)

		_, err := c.Pipelines().Play(context.Background(), "ghost")
		AssertDaemonCode(t, err, gstd.DaemonCodeNoResource)
		assert.True(t, gstd.IsNotFound(err))
		assert.Contains(t, err.Error(), `setting pipeline "ghost" to playing`)
	})

	t.Run("bad description", func(t *testing.T) {
		t.Parallel()

		c, _ := NewTestClient(t)

		_, err := c.Pipelines().Create(context.Background(), "p1", "videotestsrc ! ! fakesink")
		AssertDaemonCode(t, err, gstd.DaemonCodeBadDescription)
	})
}

func TestPipelinesClient_GraphAndVerbose(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClientWithPipeline(t)
	ctx := context.Background()

	envelope, err := c.Pipelines().Graph(ctx, "p1")
	require.NoError(t, err)
	require.True(t, envelope.HasResponse())
	assert.Contains(t, string(envelope.Response), "digraph")

	_, err = c.Pipelines().Verbose(ctx, "p1", true)
	require.NoError(t, err)
	assert.True(t, daemon.Verbose("p1"))

	requests := daemon.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "true", requests[1].Query.Get("value"))
}

func TestPipelinesClient_LocalFailures(t *testing.T) {
	t.Parallel()

	RunLocalFailureTests(t, []TestLocalFailure{
		{
			Name: "create without name",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Pipelines().Create(ctx, "", testDescription)

				return err
			},
			Code: gstd.CodeNullArgument,
		},
		{
			Name: "play without name",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Pipelines().Play(ctx, " ")

				return err
			},
			Code: gstd.CodeNullArgument,
		},
		{
			Name: "delete without name",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Pipelines().Delete(ctx, "")

				return err
			},
			Code: gstd.CodeNullArgument,
		},
		{
			Name: "unknown state",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Pipelines().SetState(ctx, "p1", gstd.State("ready-ish"))

				return err
			},
			Code: gstd.CodeTypeError,
		},
	})
}
