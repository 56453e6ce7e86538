package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/client"
	"github.com/skylineagle/gstd-go/internal/gstdtest"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

const testDescription = "videotestsrc name=src is-live=true ! x264enc bitrate=512 tune=zerolatency ! fakesink"

// NewTestClient starts a fake daemon and a client pointed at it.
func NewTestClient(t *testing.T) (*client.Client, *gstdtest.Daemon) {
	t.Helper()

	daemon := gstdtest.NewDaemon()
	t.Cleanup(daemon.Close)

	c, err := client.New(&gstd.Config{URL: daemon.URL()})
	require.NoError(t, err)

	return c, daemon
}

// NewTestClientWithPipeline is NewTestClient plus one pipeline named "p1".
func NewTestClientWithPipeline(t *testing.T) (*client.Client, *gstdtest.Daemon) {
	t.Helper()

	c, daemon := NewTestClient(t)

	_, err := c.Pipelines().Create(context.Background(), "p1", testDescription)
	require.NoError(t, err)

	daemon.ResetRequests()

	return c, daemon
}

// TestLocalFailure describes an operation that must fail before any request
// is sent.
type TestLocalFailure struct {
	Name string
	Call func(context.Context, *client.Client) error
	Code gstd.ErrorCode
}

// RunLocalFailureTests checks the classified code and that the daemon saw no
// request.
func RunLocalFailureTests(t *testing.T, tests []TestLocalFailure) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			c, daemon := NewTestClient(t)

			err := testCase.Call(context.Background(), c)
			require.Error(t, err)

			clientErr, ok := gstd.AsClientError(err)
			require.True(t, ok, "expected a ClientError, got %T", err)
			assert.Equal(t, testCase.Code, clientErr.Code)
			assert.Empty(t, daemon.Requests())
		})
	}
}

// AssertDaemonCode checks err is a DaemonError with the given code.
func AssertDaemonCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)

	daemonErr, ok := gstd.AsDaemonError(err)
	require.True(t, ok, "expected a DaemonError, got %T: %v", err, err)
	assert.Equal(t, code, daemonErr.Code)
}

// AssertClientCode checks err is a ClientError with the given code.
func AssertClientCode(t *testing.T, err error, code gstd.ErrorCode) {
	t.Helper()

	require.Error(t, err)

	clientErr, ok := gstd.AsClientError(err)
	require.True(t, ok, "expected a ClientError, got %T: %v", err, err)
	assert.Equal(t, code, clientErr.Code)
}
