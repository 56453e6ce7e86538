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

func TestDebugClient_Settings(t *testing.T) {
	t.Parallel()

	c, daemon := NewTestClient(t)
	ctx := context.Background()

	_, err := c.Debug().SetEnabled(ctx, true)
	require.NoError(t, err)

	_, err = c.Debug().SetColor(ctx, false)
	require.NoError(t, err)

	_, err = c.Debug().Reset(ctx, true)
	require.NoError(t, err)

	_, err = c.Debug().SetThreshold(ctx, gstd.DebugMemdump)
	require.NoError(t, err)

	assert.Equal(t, "true", daemon.DebugSetting("enable"))
	assert.Equal(t, "false", daemon.DebugSetting("color"))
	assert.Equal(t, "true", daemon.DebugSetting("reset"))
	assert.Equal(t, "9", daemon.DebugSetting("threshold"))

	for _, request := range daemon.Requests() {
		assert.Equal(t, http.MethodPut, request.Method)
		assert.NotEmpty(t, request.Query.Get("value"))
	}
}

func TestDebugClient_LocalFailures(t *testing.T) {
	t.Parallel()

	RunLocalFailureTests(t, []TestLocalFailure{
		{
			Name: "threshold eight",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Debug().SetThreshold(ctx, gstd.DebugLevel(8))

				return err
			},
			Code: gstd.CodeTypeError,
		},
		{
			Name: "negative threshold",
			Call: func(ctx context.Context, c *client.Client) error {
				_, err := c.Debug().SetThreshold(ctx, gstd.DebugLevel(-1))

				return err
			},
			Code: gstd.CodeTypeError,
		},
	})
}
