//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/pkg/gstd"
)

func TestScenario_PipelineLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()
	name := GenerateTestName("lifecycle")

	_, err := client.Pipelines().Create(ctx, name, TestDescription)
	require.NoError(t, err)

	names, err := client.Pipelines().List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, name)

	_, err = client.Pipelines().Play(ctx, name)
	require.NoError(t, err)

	property, err := client.Elements().Get(ctx, name, "sink", "name")
	require.NoError(t, err)
	assert.Equal(t, "name", property.Name)
	assert.Equal(t, "sink", property.Text())

	_, err = client.Pipelines().Delete(ctx, name)
	require.NoError(t, err)

	_, err = client.Pipelines().Delete(ctx, name)
	require.Error(t, err)
	assert.True(t, gstd.IsNotFound(err), "second delete: %v", err)
}

func TestScenario_DuplicateCreate(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()
	name := GenerateTestName("duplicate")

	CreatePipeline(t, client, name)

	_, err := client.Pipelines().Create(ctx, name, TestDescription)
	require.Error(t, err)

	daemonErr, ok := gstd.AsDaemonError(err)
	require.True(t, ok, "expected a daemon error, got %v", err)
	assert.NotZero(t, daemonErr.Code)

	elements, err := client.Elements().List(ctx, name)
	require.NoError(t, err)
	assert.Contains(t, elements, "sink")
}

func TestScenario_UnknownElement(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()
	name := GenerateTestName("unknown-element")

	CreatePipeline(t, client, name)

	_, err := client.Elements().Get(ctx, name, "ghost", "name")
	require.Error(t, err)
	assert.True(t, gstd.IsClassified(err))

	_, err = client.Pipelines().Play(ctx, name)
	require.NoError(t, err)
}

func TestScenario_WaitForMessageTimeout(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()
	name := GenerateTestName("bus")

	CreatePipeline(t, client, name)

	// Nothing posts an eos while the pipeline is idle.
	message, err := client.Bus().WaitForMessage(ctx, name, "eos", 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, message)

	_, err = client.Pipelines().Play(ctx, name)
	require.NoError(t, err)

	_, err = client.Events().EOS(ctx, name)
	require.NoError(t, err)

	message, err = client.Bus().WaitForMessage(ctx, name, "eos", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "eos", message.Type)
}

func TestScenario_Unreachable(t *testing.T) {
	client := (&TestConfig{URL: "http://127.0.0.1:1"}).NewClient(t)

	_, err := client.Pipelines().List(context.Background())
	require.Error(t, err)
	assert.True(t, gstd.IsUnreachable(err))
}
