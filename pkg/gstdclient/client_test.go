package gstdclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineagle/gstd-go/internal/gstdtest"
	"github.com/skylineagle/gstd-go/pkg/gstd"
	"github.com/skylineagle/gstd-go/pkg/gstdclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := gstdclient.New(nil)
		require.ErrorIs(t, err, gstd.ErrConfigRequired)
	})

	t.Run("defaults to the local daemon", func(t *testing.T) {
		t.Parallel()

		client, err := gstdclient.New(&gstd.Config{})
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:5001", client.BaseURL())
	})

	t.Run("does not modify the caller's config", func(t *testing.T) {
		t.Parallel()

		config := &gstd.Config{URL: "daemon:5001/"}

		client, err := gstdclient.New(config)
		require.NoError(t, err)
		assert.Equal(t, "http://daemon:5001", client.BaseURL())
		assert.Equal(t, "daemon:5001/", config.URL)
	})
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  gstd.Config
		want    string
		wantErr error
	}{
		{name: "full URL", config: gstd.Config{URL: "http://10.0.0.5:5001"}, want: "http://10.0.0.5:5001"},
		{name: "trailing slashes", config: gstd.Config{URL: "https://gstd.example.com//"}, want: "https://gstd.example.com"},
		{name: "missing scheme", config: gstd.Config{URL: " 10.0.0.5:5001 "}, want: "http://10.0.0.5:5001"},
		{name: "URL wins over host", config: gstd.Config{URL: "http://a:1", Host: "b", Port: 2}, want: "http://a:1"},
		{name: "host and port", config: gstd.Config{Host: "camera-1", Port: 6000}, want: "http://camera-1:6000"},
		{name: "https scheme", config: gstd.Config{Scheme: "https", Host: "camera-1"}, want: "https://camera-1:5001"},
		{name: "ipv6 host", config: gstd.Config{Host: "::1"}, want: "http://[::1]:5001"},
		{name: "bad port", config: gstd.Config{Port: 70000}, wantErr: gstd.ErrInvalidAddress},
		{name: "bad scheme", config: gstd.Config{URL: "ftp://x"}, wantErr: gstd.ErrInvalidAddress},
		{name: "no host", config: gstd.Config{URL: "http://"}, wantErr: gstd.ErrNoHostInURL},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := gstdclient.ResolveURL(&testCase.config)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestNewWithURL(t *testing.T) {
	t.Parallel()

	daemon := gstdtest.NewDaemon()
	t.Cleanup(daemon.Close)

	client, err := gstdclient.NewWithURL(daemon.URL() + "/")
	require.NoError(t, err)

	names, err := client.Pipelines().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNewWithAddress(t *testing.T) {
	t.Parallel()

	client, err := gstdclient.NewWithAddress("", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5001", client.BaseURL())

	client, err = gstdclient.NewWithAddress("10.1.2.3", 5002)
	require.NoError(t, err)
	assert.Equal(t, "http://10.1.2.3:5002", client.BaseURL())
}

func TestUnreachableDaemon(t *testing.T) {
	t.Parallel()

	daemon := gstdtest.NewDaemon()
	address := daemon.URL()
	daemon.Close()

	client, err := gstdclient.NewWithURL(address)
	require.NoError(t, err)

	_, err = client.Pipelines().List(context.Background())
	require.Error(t, err)
	assert.True(t, gstd.IsUnreachable(err))
}
