package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	internalhttp "github.com/skylineagle/gstd-go/internal/http"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// EventsClient implements gstd.EventsClient.
type EventsClient struct {
	httpClient *internalhttp.Client
}

// NewEventsClient creates a new events client.
func NewEventsClient(httpClient *internalhttp.Client) *EventsClient {
	return &EventsClient{
		httpClient: httpClient,
	}
}

func (c *EventsClient) send(ctx context.Context, pipeline string, query url.Values) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": pipeline})
	if err != nil {
		return nil, err
	}

	event := query.Get("name")
	path := fmt.Sprintf("/pipelines/%s/event", segment(pipeline))

	resp, err := call(ctx, c.httpClient, "events."+event, http.MethodPost, path, query)
	if err != nil {
		return nil, fmt.Errorf("sending %s event to pipeline %q: %w", event, pipeline, err)
	}

	return envelopeOf(resp, "event")
}

// EOS implements gstd.EventsClient.EOS.
func (c *EventsClient) EOS(ctx context.Context, pipeline string) (*gstd.Envelope, error) {
	return c.send(ctx, pipeline, url.Values{"name": []string{gstd.EventEOS}})
}

// FlushStart implements gstd.EventsClient.FlushStart.
func (c *EventsClient) FlushStart(ctx context.Context, pipeline string) (*gstd.Envelope, error) {
	return c.send(ctx, pipeline, url.Values{"name": []string{gstd.EventFlushStart}})
}

// FlushStop implements gstd.EventsClient.FlushStop.
func (c *EventsClient) FlushStop(ctx context.Context, pipeline string) (*gstd.Envelope, error) {
	return c.send(ctx, pipeline, url.Values{"name": []string{gstd.EventFlushStop}})
}

// Seek implements gstd.EventsClient.Seek.
func (c *EventsClient) Seek(ctx context.Context, pipeline string, params gstd.SeekParams) (*gstd.Envelope, error) {
	return c.send(ctx, pipeline, url.Values{
		"name":        []string{gstd.EventSeek},
		"description": []string{params.Description()},
	})
}
