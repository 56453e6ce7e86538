package gstd

import (
	"context"
	"time"
)

// PipelinesClient drives the pipeline lifecycle. State transitions are
// requests: the daemon accepts or rejects them and the client surfaces a
// rejection as a DaemonError.
type PipelinesClient interface {
	List(ctx context.Context) ([]string, error)
	Create(ctx context.Context, name, description string) (*Envelope, error)
	Play(ctx context.Context, name string) (*Envelope, error)
	Pause(ctx context.Context, name string) (*Envelope, error)
	Stop(ctx context.Context, name string) (*Envelope, error)
	SetState(ctx context.Context, name string, state State) (*Envelope, error)
	Delete(ctx context.Context, name string) (*Envelope, error)
	Graph(ctx context.Context, name string) (*Envelope, error)
	Verbose(ctx context.Context, name string, enable bool) (*Envelope, error)
}

// ElementsClient inspects elements and reads or writes their properties.
type ElementsClient interface {
	List(ctx context.Context, pipeline string) ([]string, error)
	ListProperties(ctx context.Context, pipeline, element string) ([]string, error)
	ListSignals(ctx context.Context, pipeline, element string) ([]string, error)
	Get(ctx context.Context, pipeline, element, property string) (*Property, error)
	Set(ctx context.Context, pipeline, element, property string, value any) (*Envelope, error)
}

// BusClient reads and configures a pipeline's message bus.
type BusClient interface {
	// Read returns the next message that passes the bus filter, or nil, nil
	// when the daemon-side bus timeout elapses first.
	Read(ctx context.Context, pipeline string) (*BusMessage, error)
	SetFilter(ctx context.Context, pipeline, filter string) (*Envelope, error)
	SetTimeout(ctx context.Context, pipeline string, timeout time.Duration) (*Envelope, error)

	// WaitForMessage sets the bus filter, sets the bus timeout when timeout
	// is non-zero, then reads one message. The three round trips are not
	// atomic: another caller touching the same pipeline bus in between can
	// change the filter or timeout this read observes. Callers that share a
	// pipeline must serialize externally.
	WaitForMessage(ctx context.Context, pipeline, filter string, timeout time.Duration) (*BusMessage, error)
}

// EventsClient sends events into a pipeline.
type EventsClient interface {
	EOS(ctx context.Context, pipeline string) (*Envelope, error)
	FlushStart(ctx context.Context, pipeline string) (*Envelope, error)
	FlushStop(ctx context.Context, pipeline string) (*Envelope, error)
	Seek(ctx context.Context, pipeline string, params SeekParams) (*Envelope, error)
}

// SignalsClient connects to element signals.
type SignalsClient interface {
	List(ctx context.Context, pipeline, element string) ([]string, error)
	// Connect blocks until the signal fires. It returns nil, nil when the
	// daemon-side signal timeout elapses first.
	Connect(ctx context.Context, pipeline, element, signal string) (*SignalEvent, error)
	Disconnect(ctx context.Context, pipeline, element, signal string) (*Envelope, error)
	SetTimeout(ctx context.Context, pipeline, element, signal string, timeout time.Duration) (*Envelope, error)

	// WaitForSignal sets the daemon-side signal timeout then blocks on the
	// signal callback. Like BusClient.WaitForMessage the two round trips are
	// not atomic; a concurrent SetTimeout on the same signal wins if it lands
	// in between.
	WaitForSignal(ctx context.Context, pipeline, element, signal string, timeout time.Duration) (*SignalEvent, error)
}

// DebugClient toggles the daemon's process-wide debug output.
type DebugClient interface {
	SetColor(ctx context.Context, enable bool) (*Envelope, error)
	SetEnabled(ctx context.Context, enable bool) (*Envelope, error)
	Reset(ctx context.Context, enable bool) (*Envelope, error)
	SetThreshold(ctx context.Context, level DebugLevel) (*Envelope, error)
}

// Client is the full daemon control surface. It holds no daemon state, so a
// single Client can be shared between goroutines.
type Client interface {
	Pipelines() PipelinesClient
	Elements() ElementsClient
	Bus() BusClient
	Events() EventsClient
	Signals() SignalsClient
	Debug() DebugClient

	// BaseURL returns the daemon address requests are sent to.
	BaseURL() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a gstd.Client.
//
// # Address
//
// URL takes precedence. When it is empty the address is assembled from
// Scheme, Host and Port, defaulting to http://127.0.0.1:5001. gstdclient.New
// normalizes URL by trimming a trailing slash and adding "http://" when no
// scheme is present.
//
// # Timeouts and retries
//
// Bus reads and signal waits block on the daemon for as long as the
// daemon-side timeout allows, so HTTPTimeout defaults to zero (no client
// deadline). Use the context passed to each call to bound a request. The
// client never retries on its own; RetryMax only enables connection-level
// retries in the transport and defaults to zero.
type Config struct {
	// URL: full daemon URL, e.g. "http://10.0.0.5:5001".
	URL string
	// Scheme: "http" or "https". Used when URL is empty.
	Scheme string
	// Host: daemon host. Used when URL is empty.
	Host string
	// Port: daemon port. Used when URL is empty.
	Port int

	// HTTPTimeout: optional overall timeout per HTTP exchange.
	HTTPTimeout time.Duration
	// RetryMax: connection-level retry attempts in the transport.
	RetryMax int
	// RetryWaitMin: minimum backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between transport retries.
	RetryWaitMax time.Duration

	// Debug: enables per-request debug logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Tracing: wraps the transport with OpenTelemetry instrumentation.
	Tracing bool

	// Interceptors: optional hooks run around every request.
	Interceptors *InterceptorChain
}
