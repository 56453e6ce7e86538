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

// PipelinesClient implements gstd.PipelinesClient.
type PipelinesClient struct {
	httpClient *internalhttp.Client
}

// NewPipelinesClient creates a new pipelines client.
func NewPipelinesClient(httpClient *internalhttp.Client) *PipelinesClient {
	return &PipelinesClient{
		httpClient: httpClient,
	}
}

// List implements gstd.PipelinesClient.List.
func (c *PipelinesClient) List(ctx context.Context) ([]string, error) {
	resp, err := call(ctx, c.httpClient, "pipelines.list", http.MethodGet, "/pipelines", nil)
	if err != nil {
		return nil, fmt.Errorf("listing pipelines: %w", err)
	}

	names, err := decodeNames(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing pipelines list response: %w", err)
	}

	return names, nil
}

// Create implements gstd.PipelinesClient.Create.
func (c *PipelinesClient) Create(ctx context.Context, name, description string) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": name})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("description", description)

	resp, err := call(ctx, c.httpClient, "pipelines.create", http.MethodPost, "/pipelines", query)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline %q: %w", name, err)
	}

	return envelopeOf(resp, "pipeline create")
}

// Play implements gstd.PipelinesClient.Play.
func (c *PipelinesClient) Play(ctx context.Context, name string) (*gstd.Envelope, error) {
	return c.SetState(ctx, name, gstd.StatePlaying)
}

// Pause implements gstd.PipelinesClient.Pause.
func (c *PipelinesClient) Pause(ctx context.Context, name string) (*gstd.Envelope, error) {
	return c.SetState(ctx, name, gstd.StatePaused)
}

// Stop implements gstd.PipelinesClient.Stop.
func (c *PipelinesClient) Stop(ctx context.Context, name string) (*gstd.Envelope, error) {
	return c.SetState(ctx, name, gstd.StateNull)
}

// SetState implements gstd.PipelinesClient.SetState. The daemon decides
// whether the transition is legal.
func (c *PipelinesClient) SetState(ctx context.Context, name string, state gstd.State) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": name})
	if err != nil {
		return nil, err
	}

	if !state.Valid() {
		return nil, gstd.WrapClientError(fmt.Sprintf("unknown pipeline state %q", state), gstd.CodeTypeError, gstd.ErrUnknownState)
	}

	path := fmt.Sprintf("/pipelines/%s/state", segment(name))
	query := url.Values{"name": []string{string(state)}}

	resp, err := call(ctx, c.httpClient, "pipelines.state", http.MethodPut, path, query)
	if err != nil {
		return nil, fmt.Errorf("setting pipeline %q to %s: %w", name, state, err)
	}

	return envelopeOf(resp, "pipeline state")
}

// Delete implements gstd.PipelinesClient.Delete.
func (c *PipelinesClient) Delete(ctx context.Context, name string) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": name})
	if err != nil {
		return nil, err
	}

	query := url.Values{"name": []string{name}}

	resp, err := call(ctx, c.httpClient, "pipelines.delete", http.MethodDelete, "/pipelines", query)
	if err != nil {
		return nil, fmt.Errorf("deleting pipeline %q: %w", name, err)
	}

	return envelopeOf(resp, "pipeline delete")
}

// Graph implements gstd.PipelinesClient.Graph.
func (c *PipelinesClient) Graph(ctx context.Context, name string) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": name})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/pipelines/%s/graph", segment(name))

	resp, err := call(ctx, c.httpClient, "pipelines.graph", http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting graph of pipeline %q: %w", name, err)
	}

	return envelopeOf(resp, "pipeline graph")
}

// Verbose implements gstd.PipelinesClient.Verbose.
func (c *PipelinesClient) Verbose(ctx context.Context, name string, enable bool) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": name})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/pipelines/%s/verbose", segment(name))
	query := url.Values{"value": []string{strconv.FormatBool(enable)}}

	resp, err := call(ctx, c.httpClient, "pipelines.verbose", http.MethodPut, path, query)
	if err != nil {
		return nil, fmt.Errorf("setting verbose on pipeline %q: %w", name, err)
	}

	return envelopeOf(resp, "pipeline verbose")
}
