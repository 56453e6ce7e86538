package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/internal/http"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// Client implements the gstd.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     gstd.Logger

	// Resource clients
	pipelines *PipelinesClient
	elements  *ElementsClient
	bus       *BusClient
	events    *EventsClient
	signals   *SignalsClient
	debug     *DebugClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *gstd.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Tracing {
		httpOpts = append(httpOpts, http.WithTracing())
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// New creates a daemon client. config.URL must already be a full URL; see
// gstdclient.New for address normalization.
func New(config *gstd.Config) (*Client, error) {
	if config == nil {
		return nil, gstd.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, gstd.ErrInvalidAddress
	}

	httpClient := http.NewClient(config.URL, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.pipelines = NewPipelinesClient(c.httpClient)
	c.elements = NewElementsClient(c.httpClient)
	c.bus = NewBusClient(c.httpClient)
	c.events = NewEventsClient(c.httpClient)
	c.signals = NewSignalsClient(c.httpClient, c.elements)
	c.debug = NewDebugClient(c.httpClient)
}

// Pipelines implements gstd.Client.Pipelines.
func (c *Client) Pipelines() gstd.PipelinesClient {
	return c.pipelines
}

// Elements implements gstd.Client.Elements.
func (c *Client) Elements() gstd.ElementsClient {
	return c.elements
}

// Bus implements gstd.Client.Bus.
func (c *Client) Bus() gstd.BusClient {
	return c.bus
}

// Events implements gstd.Client.Events.
func (c *Client) Events() gstd.EventsClient {
	return c.events
}

// Signals implements gstd.Client.Signals.
func (c *Client) Signals() gstd.SignalsClient {
	return c.signals
}

// Debug implements gstd.Client.Debug.
func (c *Client) Debug() gstd.DebugClient {
	return c.debug
}

// BaseURL implements gstd.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call is the one path every operation takes to the daemon. The returned
// error is already classified; callers only add context with %w.
func call(ctx context.Context, httpClient *http.Client, operation, method, path string, query url.Values) (*gstd.Response, error) {
	return httpClient.Do(ctx, &gstd.Request{
		Operation: operation,
		Method:    method,
		Path:      path,
		Query:     query,
	})
}

// requireNames fails locally when a required name is empty, before any
// request is built.
func requireNames(names map[string]string) error {
	for _, field := range []string{"pipeline", "element", "property", "signal", "filter"} {
		value, ok := names[field]
		if ok && strings.TrimSpace(value) == "" {
			return gstd.WrapClientError(field+" name is required", gstd.CodeNullArgument, gstd.ErrEmptyArgument)
		}
	}

	return nil
}

// segment escapes a name for use as one path segment.
func segment(name string) string {
	return url.PathEscape(name)
}

// decodeEnvelope parses the standard reply body.
func decodeEnvelope(body []byte) (*gstd.Envelope, error) {
	var envelope gstd.Envelope

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, gstd.WrapClientError("malformed daemon response", gstd.CodeMalformed, err)
	}

	return &envelope, nil
}

// decodePayload parses the envelope's response member into target.
func decodePayload(body []byte, target interface{}) (*gstd.Envelope, error) {
	envelope, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if !envelope.HasResponse() {
		return envelope, gstd.WrapClientError("daemon response has no payload", gstd.CodeMalformed, gstd.ErrUnexpectedResponse)
	}

	err = json.Unmarshal(envelope.Response, target)
	if err != nil {
		return envelope, gstd.WrapClientError("malformed daemon response", gstd.CodeMalformed, err)
	}

	return envelope, nil
}

// decodeNames extracts node names from a list reply.
func decodeNames(body []byte) ([]string, error) {
	var nodes gstd.NodeList

	_, err := decodePayload(body, &nodes)
	if err != nil {
		return nil, err
	}

	return nodes.Names(), nil
}

// envelopeOf decodes the reply of an operation that has no payload of
// interest.
func envelopeOf(resp *gstd.Response, action string) (*gstd.Envelope, error) {
	envelope, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", action, err)
	}

	return envelope, nil
}
