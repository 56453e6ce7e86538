package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	internalhttp "github.com/skylineagle/gstd-go/internal/http"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// ElementsClient implements gstd.ElementsClient.
type ElementsClient struct {
	httpClient *internalhttp.Client
}

// NewElementsClient creates a new elements client.
func NewElementsClient(httpClient *internalhttp.Client) *ElementsClient {
	return &ElementsClient{
		httpClient: httpClient,
	}
}

func elementPath(pipeline, element string) string {
	return fmt.Sprintf("/pipelines/%s/elements/%s", segment(pipeline), segment(element))
}

// List implements gstd.ElementsClient.List.
func (c *ElementsClient) List(ctx context.Context, pipeline string) ([]string, error) {
	err := requireNames(map[string]string{"pipeline": pipeline})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/pipelines/%s/elements", segment(pipeline))

	resp, err := call(ctx, c.httpClient, "elements.list", http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing elements of pipeline %q: %w", pipeline, err)
	}

	names, err := decodeNames(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing elements list response: %w", err)
	}

	return names, nil
}

// ListProperties implements gstd.ElementsClient.ListProperties.
func (c *ElementsClient) ListProperties(ctx context.Context, pipeline, element string) ([]string, error) {
	err := requireNames(map[string]string{"pipeline": pipeline, "element": element})
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c.httpClient, "elements.properties", http.MethodGet, elementPath(pipeline, element)+"/properties", nil)
	if err != nil {
		return nil, fmt.Errorf("listing properties of %s/%s: %w", pipeline, element, err)
	}

	names, err := decodeNames(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing properties list response: %w", err)
	}

	return names, nil
}

// ListSignals implements gstd.ElementsClient.ListSignals.
func (c *ElementsClient) ListSignals(ctx context.Context, pipeline, element string) ([]string, error) {
	err := requireNames(map[string]string{"pipeline": pipeline, "element": element})
	if err != nil {
		return nil, err
	}

	resp, err := call(ctx, c.httpClient, "elements.signals", http.MethodGet, elementPath(pipeline, element)+"/signals", nil)
	if err != nil {
		return nil, fmt.Errorf("listing signals of %s/%s: %w", pipeline, element, err)
	}

	names, err := decodeNames(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing signals list response: %w", err)
	}

	return names, nil
}

// Get implements gstd.ElementsClient.Get.
func (c *ElementsClient) Get(ctx context.Context, pipeline, element, property string) (*gstd.Property, error) {
	err := requireNames(map[string]string{"pipeline": pipeline, "element": element, "property": property})
	if err != nil {
		return nil, err
	}

	path := elementPath(pipeline, element) + "/properties/" + segment(property)

	resp, err := call(ctx, c.httpClient, "elements.get", http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s.%s: %w", pipeline, element, property, err)
	}

	var prop gstd.Property

	_, err = decodePayload(resp.Body, &prop)
	if err != nil {
		return nil, fmt.Errorf("parsing property response: %w", err)
	}

	if prop.Name == "" {
		prop.Name = property
	}

	return &prop, nil
}

// Set implements gstd.ElementsClient.Set. The value is sent in its textual
// form; the daemon validates it against the property type.
func (c *ElementsClient) Set(ctx context.Context, pipeline, element, property string, value any) (*gstd.Envelope, error) {
	err := requireNames(map[string]string{"pipeline": pipeline, "element": element, "property": property})
	if err != nil {
		return nil, err
	}

	path := elementPath(pipeline, element) + "/properties/" + segment(property)
	query := url.Values{"name": []string{gstd.FormatValue(value)}}

	resp, err := call(ctx, c.httpClient, "elements.set", http.MethodPut, path, query)
	if err != nil {
		return nil, fmt.Errorf("setting %s/%s.%s: %w", pipeline, element, property, err)
	}

	return envelopeOf(resp, "property set")
}
