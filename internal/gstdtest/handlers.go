package gstdtest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// Daemon descriptions, as gst-daemon words them.
const (
	descriptionSuccess          = "Success"
	descriptionNoResource       = "Resource not found"
	descriptionExistingResource = "Existing resource"
	descriptionBadDescription   = "Bad pipeline description"
	descriptionBadValue         = "Bad value"
	descriptionNullArgument     = "Null argument"
	descriptionBadCommand       = "Bad command"
)

func statusFor(code int) int {
	switch code {
	case gstd.DaemonCodeOK:
		return http.StatusOK
	case gstd.DaemonCodeNoPipeline, gstd.DaemonCodeNoResource:
		return http.StatusNotFound
	case gstd.DaemonCodeExistingName, gstd.DaemonCodeExistingResource:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, response interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":        gstd.DaemonCodeOK,
		"description": descriptionSuccess,
		"response":    response,
	})
}

func writeError(w http.ResponseWriter, code int, description string) {
	writeJSON(w, statusFor(code), map[string]interface{}{
		"code":        code,
		"description": description,
		"response":    nil,
	})
}

func nodes(name string, names []string) map[string]interface{} {
	list := make([]map[string]string, 0, len(names))
	for _, n := range names {
		list = append(list, map[string]string{"name": n})
	}

	return map[string]interface{}{"name": name, "nodes": list}
}

func param(r *http.Request, key string) string {
	value := chi.URLParam(r, key)

	unescaped, err := url.PathUnescape(value)
	if err != nil {
		return value
	}

	return unescaped
}

// lookup resolves the pipeline in the path. The caller must hold d.mu.
func (d *Daemon) lookup(w http.ResponseWriter, r *http.Request) *pipeline {
	p, ok := d.pipelines[param(r, "pipeline")]
	if !ok {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return nil
	}

	return p
}

// lookupElement resolves pipeline and element. The caller must hold d.mu.
func (d *Daemon) lookupElement(w http.ResponseWriter, r *http.Request) (*pipeline, *element) {
	p := d.lookup(w, r)
	if p == nil {
		return nil, nil
	}

	e := p.element(param(r, "element"))
	if e == nil {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return nil, nil
	}

	return p, e
}

func (d *Daemon) listPipelines(w http.ResponseWriter, _ *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	writeSuccess(w, nodes("pipelines", d.order))
}

func (d *Daemon) createPipeline(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	description := r.URL.Query().Get("description")

	if name == "" {
		writeError(w, gstd.DaemonCodeNullArgument, descriptionNullArgument)

		return
	}

	elements, ok := parseDescription(description)
	if !ok {
		writeError(w, gstd.DaemonCodeBadDescription, descriptionBadDescription)

		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.pipelines[name]; exists {
		writeError(w, gstd.DaemonCodeExistingResource, descriptionExistingResource)

		return
	}

	d.pipelines[name] = &pipeline{
		name:        name,
		description: description,
		state:       gstd.StateNull,
		elements:    elements,
		busTimeout:  gstd.WaitForever,
		notify:      make(chan struct{}),
	}
	d.order = append(d.order, name)

	writeSuccess(w, nil)
}

func (d *Daemon) deletePipeline(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pipelines[name]; !ok {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return
	}

	delete(d.pipelines, name)

	for i, existing := range d.order {
		if existing == name {
			d.order = append(d.order[:i], d.order[i+1:]...)

			break
		}
	}

	writeSuccess(w, nil)
}

func (d *Daemon) setState(w http.ResponseWriter, r *http.Request) {
	state := gstd.State(r.URL.Query().Get("name"))

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	if !state.Valid() {
		writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

		return
	}

	if p.state != state {
		previous := p.state
		p.state = state
		p.post(gstd.BusMessage{
			Type:    "state_changed",
			Message: string(previous) + " -> " + string(state),
		})
	}

	writeSuccess(w, nil)
}

func (d *Daemon) graph(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	var builder strings.Builder

	builder.WriteString("digraph pipeline {\n")

	for i := 1; i < len(p.elements); i++ {
		builder.WriteString("  " + strconv.Quote(p.elements[i-1].name) + " -> " + strconv.Quote(p.elements[i].name) + ";\n")
	}

	builder.WriteString("}\n")

	writeSuccess(w, builder.String())
}

func (d *Daemon) setVerbose(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.ParseBool(r.URL.Query().Get("value"))

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	if err != nil {
		writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

		return
	}

	p.verbose = value

	writeSuccess(w, nil)
}

func (d *Daemon) sendEvent(w http.ResponseWriter, r *http.Request) {
	event := r.URL.Query().Get("name")

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	switch event {
	case gstd.EventEOS:
		p.post(gstd.BusMessage{Type: "eos"})
	case gstd.EventFlushStart, gstd.EventFlushStop:
	case gstd.EventSeek:
		if len(strings.Fields(r.URL.Query().Get("description"))) != 7 {
			writeError(w, gstd.DaemonCodeEventError, "Event error")

			return
		}
	default:
		writeError(w, gstd.DaemonCodeBadCommand, descriptionBadCommand)

		return
	}

	writeSuccess(w, nil)
}

func (d *Daemon) setBusFilter(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	p.busFilter = r.URL.Query().Get("name")

	writeSuccess(w, nil)
}

func (d *Daemon) setBusTimeout(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.ParseInt(r.URL.Query().Get("name"), 10, 64)

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	if err != nil {
		writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

		return
	}

	if value < 0 {
		p.busTimeout = gstd.WaitForever
	} else {
		p.busTimeout = time.Duration(value)
	}

	writeSuccess(w, nil)
}

// readBus blocks until a message passes the filter or the bus timeout
// elapses, in which case the response is null.
func (d *Daemon) readBus(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()

	p := d.lookup(w, r)
	if p == nil {
		d.mu.Unlock()

		return
	}

	expired := waitTimer(p.busTimeout)

	for {
		message, ok := p.take()
		if ok {
			d.mu.Unlock()
			writeSuccess(w, message)

			return
		}

		notify := p.notify
		d.mu.Unlock()

		select {
		case <-notify:
		case <-expired:
			writeSuccess(w, nil)

			return
		case <-r.Context().Done():
			return
		case <-d.done:
			return
		}

		d.mu.Lock()
	}
}

func (d *Daemon) listElements(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.lookup(w, r)
	if p == nil {
		return
	}

	names := make([]string, 0, len(p.elements))
	for _, e := range p.elements {
		names = append(names, e.name)
	}

	writeSuccess(w, nodes("elements", names))
}

func (d *Daemon) listProperties(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	writeSuccess(w, nodes("properties", e.propOrder))
}

func (d *Daemon) getProperty(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	name := param(r, "property")

	value, ok := e.properties[name]
	if !ok {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return
	}

	writeSuccess(w, map[string]interface{}{
		"name":  name,
		"value": value,
		"param": map[string]string{
			"description": name + " property of " + e.factory,
			"type":        propertyType(value),
			"access":      "((GParamFlags) READWRITE)",
		},
	})
}

func propertyType(value json.RawMessage) string {
	trimmed := strings.TrimSpace(string(value))

	switch {
	case trimmed == "true" || trimmed == "false":
		return "gboolean"
	case strings.HasPrefix(trimmed, `"`):
		return "gchararray"
	case strings.ContainsAny(trimmed, ".eE"):
		return "gdouble"
	default:
		return "gint"
	}
}

func (d *Daemon) setProperty(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	name := param(r, "property")

	current, ok := e.properties[name]
	if !ok {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return
	}

	value, ok := coerce(current, r.URL.Query().Get("name"))
	if !ok {
		writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

		return
	}

	e.properties[name] = value

	writeSuccess(w, nil)
}

func (d *Daemon) listSignals(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	writeSuccess(w, nodes("signals", e.signals))
}

func hasSignal(e *element, signal string) bool {
	for _, s := range e.signals {
		if s == signal {
			return true
		}
	}

	return false
}

// signalCallback blocks until the signal fires or the signal timeout
// elapses, in which case the response is null.
func (d *Daemon) signalCallback(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		d.mu.Unlock()

		return
	}

	signal := param(r, "signal")
	if !hasSignal(e, signal) {
		d.mu.Unlock()
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return
	}

	timeout, ok := e.timeouts[signal]
	if !ok {
		timeout = gstd.WaitForever
	}

	expired := waitTimer(timeout)

	for {
		if queued := e.pending[signal]; len(queued) > 0 {
			event := queued[0]
			e.pending[signal] = queued[1:]
			d.mu.Unlock()
			writeSuccess(w, event)

			return
		}

		notify := e.notify
		d.mu.Unlock()

		select {
		case <-notify:
		case <-expired:
			writeSuccess(w, nil)

			return
		case <-r.Context().Done():
			return
		case <-d.done:
			return
		}

		d.mu.Lock()
	}
}

func (d *Daemon) signalDisconnect(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	signal := param(r, "signal")
	if !hasSignal(e, signal) {
		writeError(w, gstd.DaemonCodeNoResource, descriptionNoResource)

		return
	}

	delete(e.pending, signal)

	writeSuccess(w, nil)
}

func (d *Daemon) signalTimeout(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.ParseInt(r.URL.Query().Get("timeout"), 10, 64)

	d.mu.Lock()
	defer d.mu.Unlock()

	_, e := d.lookupElement(w, r)
	if e == nil {
		return
	}

	if err != nil {
		writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

		return
	}

	signal := param(r, "signal")

	if value < 0 {
		e.timeouts[signal] = gstd.WaitForever
	} else {
		e.timeouts[signal] = time.Duration(value) * time.Microsecond
	}

	writeSuccess(w, nil)
}

func (d *Daemon) setDebug(w http.ResponseWriter, r *http.Request) {
	setting := param(r, "setting")
	value := r.URL.Query().Get("value")

	switch setting {
	case "color", "enable", "reset":
		if _, err := strconv.ParseBool(value); err != nil {
			writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

			return
		}
	case "threshold":
		level, err := strconv.Atoi(value)
		if err != nil || !gstd.DebugLevel(level).Valid() {
			writeError(w, gstd.DaemonCodeBadValue, descriptionBadValue)

			return
		}
	default:
		writeError(w, gstd.DaemonCodeBadCommand, descriptionBadCommand)

		return
	}

	d.mu.Lock()
	d.debug[setting] = value
	d.mu.Unlock()

	writeSuccess(w, nil)
}

// waitTimer returns a channel that fires after timeout, or never for a
// negative timeout.
func waitTimer(timeout time.Duration) <-chan time.Time {
	if timeout < 0 {
		return nil
	}

	return time.After(timeout)
}
