// Package gstdtest provides an in-memory stand-in for gst-daemon's HTTP
// interface. It keeps just enough state (pipelines, their elements and
// properties, a bus queue per pipeline and pending signals) for client code
// to be exercised end to end without GStreamer.
package gstdtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// RecordedRequest is one request the daemon served.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
}

// Reply is a canned raw response used to inject faults.
type Reply struct {
	Status int
	Body   string
}

type element struct {
	name       string
	factory    string
	properties map[string]json.RawMessage
	propOrder  []string
	signals    []string
	timeouts   map[string]time.Duration
	pending    map[string][]gstd.SignalEvent
	notify     chan struct{}
}

type pipeline struct {
	name        string
	description string
	state       gstd.State
	verbose     bool
	elements    []*element
	bus         []gstd.BusMessage
	busFilter   string
	busTimeout  time.Duration
	seqnum      int64
	notify      chan struct{}
}

// Daemon is a fake gst-daemon served over httptest.
type Daemon struct {
	mu        sync.Mutex
	pipelines map[string]*pipeline
	order     []string
	debug     map[string]string
	requests  []RecordedRequest
	faults    []Reply

	done   chan struct{}
	server *httptest.Server
}

// NewDaemon starts a fake daemon. Call Close when done.
func NewDaemon() *Daemon {
	daemon := &Daemon{
		pipelines: make(map[string]*pipeline),
		debug:     make(map[string]string),
		done:      make(chan struct{}),
	}

	daemon.server = httptest.NewServer(daemon.routes())

	return daemon
}

// URL returns the base URL of the daemon.
func (d *Daemon) URL() string {
	return d.server.URL
}

// Close releases blocked bus reads and signal callbacks, then shuts the
// daemon down.
func (d *Daemon) Close() {
	close(d.done)
	d.server.Close()
}

// Requests returns every request served so far, in order.
func (d *Daemon) Requests() []RecordedRequest {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]RecordedRequest(nil), d.requests...)
}

// ResetRequests forgets the recorded requests.
func (d *Daemon) ResetRequests() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requests = nil
}

// FailNext makes the next request receive reply instead of being served.
// Replies queue up in call order.
func (d *Daemon) FailNext(reply Reply) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.faults = append(d.faults, reply)
}

// State returns the state a pipeline was last moved to.
func (d *Daemon) State(name string) (gstd.State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pipelines[name]
	if !ok {
		return "", false
	}

	return p.state, true
}

// BusFilter returns the filter currently set on a pipeline bus.
func (d *Daemon) BusFilter(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pipelines[name]; ok {
		return p.busFilter
	}

	return ""
}

// BusTimeout returns the timeout currently set on a pipeline bus.
func (d *Daemon) BusTimeout(name string) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pipelines[name]; ok {
		return p.busTimeout
	}

	return 0
}

// DebugSetting returns the last value written to a debug setting.
func (d *Daemon) DebugSetting(setting string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.debug[setting]
}

// Verbose reports whether verbose mode is on for a pipeline.
func (d *Daemon) Verbose(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pipelines[name]; ok {
		return p.verbose
	}

	return false
}

// PostMessage appends a message to a pipeline bus.
func (d *Daemon) PostMessage(name string, message gstd.BusMessage) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pipelines[name]
	if !ok {
		return false
	}

	p.post(message)

	return true
}

// EmitSignal fires a signal on an element, releasing one pending callback.
func (d *Daemon) EmitSignal(pipelineName, elementName, signal string, args ...gstd.SignalArgument) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pipelines[pipelineName]
	if !ok {
		return false
	}

	e := p.element(elementName)
	if e == nil {
		return false
	}

	e.pending[signal] = append(e.pending[signal], gstd.SignalEvent{Name: signal, Arguments: args})
	close(e.notify)
	e.notify = make(chan struct{})

	return true
}

func (p *pipeline) post(message gstd.BusMessage) {
	p.seqnum++

	if message.Seqnum == 0 {
		message.Seqnum = p.seqnum
	}

	if message.Source == "" {
		message.Source = p.name
	}

	if message.Timestamp == "" {
		message.Timestamp = time.Now().UTC().Format("15:04:05.000000000")
	}

	p.bus = append(p.bus, message)
	close(p.notify)
	p.notify = make(chan struct{})
}

// take pops the first queued message the current filter accepts.
func (p *pipeline) take() (gstd.BusMessage, bool) {
	for i, message := range p.bus {
		if filterAccepts(p.busFilter, message.Type) {
			p.bus = append(p.bus[:i], p.bus[i+1:]...)

			return message, true
		}
	}

	return gstd.BusMessage{}, false
}

func (p *pipeline) element(name string) *element {
	for _, e := range p.elements {
		if e.name == name {
			return e
		}
	}

	return nil
}

func filterAccepts(filter, messageType string) bool {
	if filter == "" || filter == "all" {
		return true
	}

	for _, accepted := range strings.Split(filter, "+") {
		if strings.TrimSpace(accepted) == messageType {
			return true
		}
	}

	return false
}

func (d *Daemon) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(d.record)

	r.Get("/pipelines", d.listPipelines)
	r.Post("/pipelines", d.createPipeline)
	r.Delete("/pipelines", d.deletePipeline)

	r.Route("/pipelines/{pipeline}", func(r chi.Router) {
		r.Put("/state", d.setState)
		r.Get("/graph", d.graph)
		r.Put("/verbose", d.setVerbose)
		r.Post("/event", d.sendEvent)
		r.Put("/event", d.sendEvent)

		r.Get("/bus/message", d.readBus)
		r.Put("/bus/types", d.setBusFilter)
		r.Put("/bus/timeout", d.setBusTimeout)

		r.Get("/elements", d.listElements)
		r.Get("/elements/{element}/properties", d.listProperties)
		r.Get("/elements/{element}/properties/{property}", d.getProperty)
		r.Put("/elements/{element}/properties/{property}", d.setProperty)
		r.Get("/elements/{element}/signals", d.listSignals)
		r.Get("/elements/{element}/signals/{signal}/callback", d.signalCallback)
		r.Get("/elements/{element}/signals/{signal}/disconnect", d.signalDisconnect)
		r.Put("/elements/{element}/signals/{signal}/timeout", d.signalTimeout)
	})

	r.Put("/debug/{setting}", d.setDebug)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, gstd.DaemonCodeBadCommand, "Bad command")
	})

	return r
}

// record logs the request and serves a queued fault instead, if any.
func (d *Daemon) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.requests = append(d.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
		})

		var fault *Reply
		if len(d.faults) > 0 {
			fault = &d.faults[0]
			d.faults = d.faults[1:]
		}
		d.mu.Unlock()

		if fault != nil {
			w.WriteHeader(fault.Status)
			_, _ = w.Write([]byte(fault.Body))

			return
		}

		next.ServeHTTP(w, r)
	})
}

// parseDescription derives elements from a launch line. Only linear
// "factory prop=value ! factory" chains are understood, which is all the
// fake needs.
func parseDescription(description string) ([]*element, bool) {
	counters := make(map[string]int)

	var elements []*element

	for _, chunk := range strings.Split(description, "!") {
		fields := strings.Fields(chunk)
		if len(fields) == 0 {
			return nil, false
		}

		for len(fields) > 0 {
			factory := fields[0]
			if strings.Contains(factory, "=") || strings.Contains(factory, ".") {
				// Pad references and dangling properties are not elements.
				fields = fields[1:]

				continue
			}

			e := &element{
				factory:    factory,
				properties: make(map[string]json.RawMessage),
				timeouts:   make(map[string]time.Duration),
				pending:    make(map[string][]gstd.SignalEvent),
				notify:     make(chan struct{}),
				signals:    signalsFor(factory),
			}

			fields = fields[1:]
			for len(fields) > 0 && strings.Contains(fields[0], "=") {
				key, value, _ := strings.Cut(fields[0], "=")
				e.setProperty(key, typedValue(value))
				fields = fields[1:]
			}

			if raw, ok := e.properties["name"]; ok {
				_ = json.Unmarshal(raw, &e.name)
			} else {
				e.name = factory + strconv.Itoa(counters[factory])
				counters[factory]++
				e.setProperty("name", typedValue(e.name))
			}

			elements = append(elements, e)
		}
	}

	return elements, len(elements) > 0
}

func (e *element) setProperty(key string, value json.RawMessage) {
	if _, ok := e.properties[key]; !ok {
		e.propOrder = append(e.propOrder, key)
	}

	e.properties[key] = value
}

func signalsFor(factory string) []string {
	signals := []string{"pad-added", "pad-removed", "no-more-pads"}

	switch factory {
	case "fakesink", "fakesrc", "identity":
		signals = append(signals, "handoff")
	case "appsink":
		signals = append(signals, "new-sample", "new-preroll", "eos")
	}

	return signals
}

// typedValue renders a launch-line value as JSON, keeping numbers and
// booleans typed the way the daemon reports them.
func typedValue(value string) json.RawMessage {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return json.RawMessage(value)
	}

	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return json.RawMessage(value)
	}

	if value == "true" || value == "false" {
		return json.RawMessage(value)
	}

	encoded, _ := json.Marshal(value)

	return encoded
}

// coerce converts a textual value to the JSON type of current, reporting
// false when it does not fit.
func coerce(current json.RawMessage, value string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(string(current))

	switch {
	case trimmed == "true" || trimmed == "false":
		if value != "true" && value != "false" {
			return nil, false
		}

		return json.RawMessage(value), true
	case strings.HasPrefix(trimmed, `"`):
		encoded, _ := json.Marshal(value)

		return encoded, true
	case trimmed == "":
		return typedValue(value), true
	default:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, false
		}

		return json.RawMessage(value), true
	}
}
