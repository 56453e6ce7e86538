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

// SignalsClient implements gstd.SignalsClient.
type SignalsClient struct {
	httpClient *internalhttp.Client
	elements   *ElementsClient
}

// NewSignalsClient creates a new signals client. Listing is delegated to the
// elements client, which owns the signals collection endpoint.
func NewSignalsClient(httpClient *internalhttp.Client, elements *ElementsClient) *SignalsClient {
	return &SignalsClient{
		httpClient: httpClient,
		elements:   elements,
	}
}

func signalPath(pipeline, element, signal, leaf string) string {
	return elementPath(pipeline, element) + "/signals/" + segment(signal) + "/" + leaf
}

func requireSignal(pipeline, element, signal string) error {
	return requireNames(map[string]string{"pipeline": pipeline, "element": element, "signal": signal})
}

// List implements gstd.SignalsClient.List.
func (c *SignalsClient) List(ctx context.Context, pipeline, element string) ([]string, error) {
	return c.elements.ListSignals(ctx, pipeline, element)
}

// Connect implements gstd.SignalsClient.Connect. The call blocks until the
// signal fires or the daemon-side signal timeout elapses; in the latter case
// it returns nil, nil.
func (c *SignalsClient) Connect(ctx context.Context, pipeline, element, signal string) (*gstd.SignalEvent, error) {
	err := requireSignal(pipeline, element, signal)
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c.httpClient, "signals.connect", http.MethodGet, signalPath(pipeline, element, signal, "callback"), nil)
	if err != nil {
		return nil, fmt.Errorf("waiting for signal %s on %s/%s: %w", signal, pipeline, element, err)
	}

	envelope, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing signal response: %w", err)
	}

	if !envelope.HasResponse() {
		return nil, nil //nolint:nilnil // signal did not fire within its timeout
	}

	var event gstd.SignalEvent

	err = json.Unmarshal(envelope.Response, &event)
	if err != nil {
		return nil, fmt.Errorf("parsing signal response: %w",
			gstd.WrapClientError("malformed signal payload", gstd.CodeMalformed, err))
	}

	if event.Name == "" {
		event.Name = signal
	}

	return &event, nil
}

// Disconnect implements gstd.SignalsClient.Disconnect.
func (c *SignalsClient) Disconnect(ctx context.Context, pipeline, element, signal string) (*gstd.Envelope, error) {
	err := requireSignal(pipeline, element, signal)
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c.httpClient, "signals.disconnect", http.MethodGet, signalPath(pipeline, element, signal, "disconnect"), nil)
	if err != nil {
		return nil, fmt.Errorf("disconnecting signal %s on %s/%s: %w", signal, pipeline, element, err)
	}

	return envelopeOf(resp, "signal disconnect")
}

// SetTimeout implements gstd.SignalsClient.SetTimeout.
func (c *SignalsClient) SetTimeout(ctx context.Context, pipeline, element, signal string, timeout time.Duration) (*gstd.Envelope, error) {
	err := requireSignal(pipeline, element, signal)
	if err != nil {
		return nil, err
	}

	query := url.Values{"timeout": []string{gstd.SignalTimeoutValue(timeout)}}

	resp, err := call(ctx, c.httpClient, "signals.timeout", http.MethodPut, signalPath(pipeline, element, signal, "timeout"), query)
	if err != nil {
		return nil, fmt.Errorf("setting timeout of signal %s on %s/%s: %w", signal, pipeline, element, err)
	}

	return envelopeOf(resp, "signal timeout")
}

// WaitForSignal implements gstd.SignalsClient.WaitForSignal.
func (c *SignalsClient) WaitForSignal(ctx context.Context, pipeline, element, signal string, timeout time.Duration) (*gstd.SignalEvent, error) {
	_, err := c.SetTimeout(ctx, pipeline, element, signal, timeout)
	if err != nil {
		return nil, err
	}

	return c.Connect(ctx, pipeline, element, signal)
}
