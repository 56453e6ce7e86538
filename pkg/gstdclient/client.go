package gstdclient

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/skylineagle/gstd-go/internal/client"
	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// New creates a GStreamer Daemon client. It performs no I/O: an unreachable
// daemon is reported by the first operation, not here.
func New(config *gstd.Config) (gstd.Client, error) {
	if config == nil {
		return nil, gstd.ErrConfigRequired
	}

	baseURL, err := ResolveURL(config)
	if err != nil {
		return nil, err
	}

	resolved := *config
	resolved.URL = baseURL

	c, err := client.New(&resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithURL creates a client for the daemon at rawURL, e.g.
// "http://10.0.0.5:5001" or "10.0.0.5:5001".
func NewWithURL(rawURL string) (gstd.Client, error) {
	return New(&gstd.Config{URL: rawURL})
}

// NewWithAddress creates a plain-HTTP client for host:port. Empty host and
// zero port fall back to 127.0.0.1 and 5001.
func NewWithAddress(host string, port int) (gstd.Client, error) {
	return New(&gstd.Config{Host: host, Port: port})
}

// ResolveURL returns the normalized daemon URL described by config.
func ResolveURL(config *gstd.Config) (string, error) {
	if strings.TrimSpace(config.URL) != "" {
		return normalizeURL(config.URL)
	}

	scheme := config.Scheme
	if scheme == "" {
		scheme = constants.DefaultScheme
	}

	host := config.Host
	if host == "" {
		host = constants.DefaultHost
	}

	port := config.Port
	if port == 0 {
		port = constants.DefaultPort
	}

	if port < 0 || port > 65535 {
		return "", fmt.Errorf("%w: port %d out of range", gstd.ErrInvalidAddress, port)
	}

	return normalizeURL(scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port)))
}

func normalizeURL(raw string) (string, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = constants.DefaultScheme + "://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", gstd.ErrInvalidAddress, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", gstd.ErrInvalidAddress, parsed.Scheme)
	}

	if parsed.Host == "" {
		return "", gstd.ErrNoHostInURL
	}

	return endpoint, nil
}
