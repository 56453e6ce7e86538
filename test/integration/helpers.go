//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/pkg/gstd"
	"github.com/skylineagle/gstd-go/pkg/gstdclient"
)

// TestDescription needs only core GStreamer plugins plus x264.
const TestDescription = "videotestsrc is-live=true ! videoconvert ! x264enc bitrate=512 tune=zerolatency ! fakesink name=sink"

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	URL string
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		URL: os.Getenv("GSTD_URL"),
	}
}

// SkipIfMissingConfig skips the test when no daemon is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.URL == "" {
		t.Skip("GSTD_URL not set, skipping integration test")
	}
}

// NewClient returns a client for the configured daemon.
func (config *TestConfig) NewClient(t *testing.T) gstd.Client {
	t.Helper()

	client, err := gstdclient.New(&gstd.Config{URL: config.URL})
	require.NoError(t, err)

	return client
}

// GenerateTestName generates a unique pipeline name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CreatePipeline creates a pipeline and registers its deletion.
func CreatePipeline(t *testing.T, client gstd.Client, name string) {
	t.Helper()

	_, err := client.Pipelines().Create(context.Background(), name, TestDescription)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = client.Pipelines().Delete(context.Background(), name)
	})
}
