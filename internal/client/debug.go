package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	internalhttp "github.com/skylineagle/gstd-go/internal/http"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// DebugClient implements gstd.DebugClient. Every setting is process-wide on
// the daemon.
type DebugClient struct {
	httpClient *internalhttp.Client
}

// NewDebugClient creates a new debug client.
func NewDebugClient(httpClient *internalhttp.Client) *DebugClient {
	return &DebugClient{
		httpClient: httpClient,
	}
}

func (c *DebugClient) put(ctx context.Context, setting, value string) (*gstd.Envelope, error) {
	query := url.Values{"value": []string{value}}

	resp, err := call(ctx, c.httpClient, "debug."+setting, http.MethodPut, "/debug/"+setting, query)
	if err != nil {
		return nil, fmt.Errorf("setting debug %s: %w", setting, err)
	}

	return envelopeOf(resp, "debug "+setting)
}

// SetColor implements gstd.DebugClient.SetColor.
func (c *DebugClient) SetColor(ctx context.Context, enable bool) (*gstd.Envelope, error) {
	return c.put(ctx, "color", strconv.FormatBool(enable))
}

// SetEnabled implements gstd.DebugClient.SetEnabled.
func (c *DebugClient) SetEnabled(ctx context.Context, enable bool) (*gstd.Envelope, error) {
	return c.put(ctx, "enable", strconv.FormatBool(enable))
}

// Reset implements gstd.DebugClient.Reset.
func (c *DebugClient) Reset(ctx context.Context, enable bool) (*gstd.Envelope, error) {
	return c.put(ctx, "reset", strconv.FormatBool(enable))
}

// SetThreshold implements gstd.DebugClient.SetThreshold.
func (c *DebugClient) SetThreshold(ctx context.Context, level gstd.DebugLevel) (*gstd.Envelope, error) {
	if !level.Valid() {
		return nil, gstd.WrapClientError(fmt.Sprintf("invalid debug threshold %d", int(level)), gstd.CodeTypeError, gstd.ErrInvalidDebugLevel)
	}

	return c.put(ctx, "threshold", strconv.Itoa(int(level)))
}
