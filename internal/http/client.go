// Package http is the transport every daemon operation goes through. It owns
// the single normalisation step: whatever happens on the wire, Do returns
// either a successful response or one classified error.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// Client executes requests against the daemon.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	interceptors *gstd.InterceptorChain
	logger       gstd.Logger
	debug        bool
	userAgent    string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output and by the retry layer.
func WithLogger(logger gstd.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables per-request debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables connection-level retries. Responses are never
// retried, whatever their status.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets an overall timeout per HTTP exchange. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing() Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Transport = otelhttp.NewTransport(c.httpClient.HTTPClient.Transport)
	}
}

// WithInterceptors installs an interceptor chain.
func WithInterceptors(chain *gstd.InterceptorChain) Option {
	return func(c *Client) {
		if chain != nil {
			c.interceptors = chain
		}
	}
}

// NewClient creates a transport for the daemon at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = connectionRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = 0

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		interceptors: gstd.NewInterceptorChain(),
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// connectionRetryPolicy retries only exchanges that produced no response.
// Whatever the daemon answers, including 5xx, goes straight to the caller.
func connectionRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err == nil {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// BaseURL returns the daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do runs req through the interceptors and the daemon and returns the
// response together with its classified outcome. The returned error is
// always nil, a *gstd.ClientError or a *gstd.DaemonError, and equals
// resp.Error. resp is never nil.
func (c *Client) Do(ctx context.Context, req *gstd.Request) (*gstd.Response, error) {
	if req.Headers == nil {
		req.Headers = make(http.Header)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, req)
	if err != nil {
		classified := classifyHookError(err, gstd.CodeSendError)

		return &gstd.Response{Error: classified}, classified
	}

	resp := c.execute(ctx, req)

	err = c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
	if err != nil && resp.Error == nil {
		resp.Error = classifyHookError(err, gstd.CodeRecvError)
	}

	if resp.Error != nil {
		return resp, resp.Error
	}

	return resp, nil
}

func (c *Client) execute(ctx context.Context, req *gstd.Request) *gstd.Response {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, nil)
	if err != nil {
		return &gstd.Response{Error: gstd.WrapClientError("building request", gstd.CodeSendError, err)}
	}

	httpReq.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    redactURL(httpReq.URL),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil && httpResp.Body != nil {
			_ = httpResp.Body.Close()
		}

		return &gstd.Response{Error: gstd.ClassifyTransportError(err)}
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	resp := &gstd.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			resp.Error = gstd.ClassifyTransportError(err)
		} else {
			resp.Error = gstd.WrapClientError(gstd.MessageUnexpected, gstd.CodeRecvError, err)
		}

		return resp
	}

	resp.Body = body
	resp.Error = gstd.ClassifyResponse(
		httpResp.StatusCode,
		gstd.ReasonPhrase(httpResp.StatusCode, httpResp.Status),
		body,
	)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": httpResp.StatusCode,
			"bytes":       len(body),
		})
	}

	return resp
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*gstd.Response, error) {
	return c.Do(ctx, &gstd.Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, query url.Values) (*gstd.Response, error) {
	return c.Do(ctx, &gstd.Request{Method: http.MethodPost, Path: path, Query: query})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, query url.Values) (*gstd.Response, error) {
	return c.Do(ctx, &gstd.Request{Method: http.MethodPut, Path: path, Query: query})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*gstd.Response, error) {
	return c.Do(ctx, &gstd.Request{Method: http.MethodDelete, Path: path, Query: query})
}

// classifyHookError keeps interceptor failures inside the taxonomy.
func classifyHookError(err error, code gstd.ErrorCode) error {
	if gstd.IsClassified(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return gstd.ClassifyTransportError(err)
	}

	return gstd.WrapClientError("interceptor rejected request", code, err)
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	return u.Redacted()
}
