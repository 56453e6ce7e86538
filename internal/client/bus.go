package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	internalhttp "github.com/skylineagle/gstd-go/internal/http"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// BusClient implements gstd.BusClient.
type BusClient struct {
	httpClient *internalhttp.Client
}

// NewBusClient creates a new bus client.
func NewBusClient(httpClient *internalhttp.Client) *BusClient {
	return &BusClient{
		httpClient: httpClient,
	}
}

func busPath(pipeline, leaf string) string {
	return fmt.Sprintf("/pipelines/%s/bus/%s", segment(pipeline), leaf)
}

// Read implements gstd.BusClient.Read. It returns nil, nil when the daemon
// timeout elapsed without a matching message.
func (c *BusClient) Read(ctx context.Context, pipeline string) (*gstd.BusMessage, error) {
	err := requireNames(map[string]string{"pipeline": pipeline})
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c.httpClient, "bus.read", http.MethodGet, busPath(pipeline, "message"), nil)
	if err != nil {
		return nil, fmt.Errorf("reading bus of pipeline %q: %w", pipeline, err)
	}

	envelope, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing bus message response: %w", err)
	}

	if !envelope.HasResponse() {
		return nil, nil //nolint:nilnil // no message within the bus timeout
	}

	var message gstd.BusMessage

	err = json.Unmarshal(envelope.Response, &message)
	if err != nil {
		return nil, fmt.Errorf("parsing bus message response: %w",
			gstd.WrapClientError("malformed bus message", gstd.CodeMalformed, err))
	}

	message.Raw = envelope.Response

	return &message, nil
}

// SetFilter implements gstd.BusClient.SetFilter.
func (c *BusClient) SetFilter(ctx context.Context, pipeline, filter string) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": pipeline, "filter": filter})
	if err != nil {
		return nil, err
	}

	query := url.Values{"name": []string{filter}}

	resp, err := call(ctx, c.httpClient, "bus.filter", http.MethodPut, busPath(pipeline, "types"), query)
	if err != nil {
		return nil, fmt.Errorf("setting bus filter on pipeline %q: %w", pipeline, err)
	}

	return envelopeOf(resp, "bus filter")
}

// SetTimeout implements gstd.BusClient.SetTimeout.
func (c *BusClient) SetTimeout(ctx context.Context, pipeline string, timeout time.Duration) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": pipeline})
	if err != nil {
		return nil, err
	}

	query := url.Values{"name": []string{gstd.BusTimeoutValue(timeout)}}

	resp, err := call(ctx, c.httpClient, "bus.timeout", http.MethodPut, busPath(pipeline, "timeout"), query)
	if err != nil {
		return nil, fmt.Errorf("setting bus timeout on pipeline %q: %w", pipeline, err)
	}

	return envelopeOf(resp, "bus timeout")
}

// WaitForMessage implements gstd.BusClient.WaitForMessage.
func (c *BusClient) WaitForMessage(ctx context.Context, pipeline, filter string, timeout time.Duration) (*gstd.BusMessage, error) {
	_, err := c.SetFilter(ctx, pipeline, filter)
	if err != nil {
		return nil, err
	}

	if timeout != 0 {
		_, err = c.SetTimeout(ctx, pipeline, timeout)
		if err != nil {
			return nil, err
		}
	}

	return c.Read(ctx, pipeline)
}
