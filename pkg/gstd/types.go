package gstd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Envelope is the body every daemon endpoint replies with.
type Envelope struct {
	Code        int             `json:"code"               yaml:"code"`
	Description string          `json:"description"        yaml:"description"`
	Response    json.RawMessage `json:"response,omitempty" yaml:"-"`
}

// HasResponse reports whether the envelope carries a non-null payload.
func (e *Envelope) HasResponse() bool {
	trimmed := bytes.TrimSpace(e.Response)

	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Node is one entry of a list response.
type Node struct {
	Name string `json:"name" yaml:"name"`
}

// NodeList is the payload shape shared by every list endpoint.
type NodeList struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes"          yaml:"nodes"`
}

// Names extracts the node names in daemon order.
func (l *NodeList) Names() []string {
	names := make([]string, 0, len(l.Nodes))
	for _, node := range l.Nodes {
		names = append(names, node.Name)
	}

	return names
}

// Property is an element property as reported by the daemon. The value type
// is defined by the element, so it is kept as raw JSON.
type Property struct {
	Name  string          `json:"name"            yaml:"name"`
	Value json.RawMessage `json:"value"           yaml:"-"`
	Param *PropertyParam  `json:"param,omitempty" yaml:"param,omitempty"`
}

// PropertyParam describes the property's declared type, when reported.
type PropertyParam struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	Access      string `json:"access,omitempty"      yaml:"access,omitempty"`
}

// Text returns the textual form of the value: strings are unquoted, every
// other JSON value is returned as written by the daemon.
func (p *Property) Text() string {
	return rawText(p.Value)
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return text
		}
	}

	return string(trimmed)
}

// BusMessage is one message read from a pipeline bus.
type BusMessage struct {
	Type      string          `json:"type"                yaml:"type"`
	Source    string          `json:"source,omitempty"    yaml:"source,omitempty"`
	Timestamp string          `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Seqnum    int64           `json:"seqnum,omitempty"    yaml:"seqnum,omitempty"`
	Message   string          `json:"message,omitempty"   yaml:"message,omitempty"`
	Debug     string          `json:"debug,omitempty"     yaml:"debug,omitempty"`
	Raw       json.RawMessage `json:"-"                   yaml:"-"`
}

// SignalEvent is the payload returned when a connected signal fires.
type SignalEvent struct {
	Name      string           `json:"name"      yaml:"name"`
	Arguments []SignalArgument `json:"arguments" yaml:"arguments"`
}

// SignalArgument is one argument of an emitted signal.
type SignalArgument struct {
	Type  string          `json:"type"  yaml:"type"`
	Value json.RawMessage `json:"value" yaml:"-"`
}

// Text returns the textual form of the argument value.
func (a SignalArgument) Text() string {
	return rawText(a.Value)
}

// State is a pipeline state the daemon can be asked to move to. The client
// never tracks the current state; it only names the requested one.
type State string

// Pipeline states accepted by the state endpoint.
const (
	StateNull    State = "null"
	StatePaused  State = "paused"
	StatePlaying State = "playing"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateNull, StatePaused, StatePlaying:
		return true
	default:
		return false
	}
}

// ParseState converts user input ("PLAYING", "stop", ...) into a State.
func ParseState(value string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "null", "stop", "stopped":
		return StateNull, nil
	case "paused", "pause":
		return StatePaused, nil
	case "playing", "play":
		return StatePlaying, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownState, value)
	}
}

// Event names accepted by the event endpoint.
const (
	EventEOS        = "eos"
	EventFlushStart = "flush_start"
	EventFlushStop  = "flush_stop"
	EventSeek       = "seek"
)

// SeekParams are the arguments of a seek event, in wire order.
type SeekParams struct {
	Rate      float64
	Format    int
	Flags     int
	StartType int
	Start     int64
	EndType   int
	End       int64
}

// DefaultSeekParams returns a normal-rate flushing seek to the start, in
// time format, with no end position.
func DefaultSeekParams() SeekParams {
	return SeekParams{
		Rate:      1.0,
		Format:    3,
		Flags:     1,
		StartType: 1,
		Start:     0,
		EndType:   1,
		End:       -1,
	}
}

// Description renders the parameters as the space-separated token string the
// daemon expects.
func (p SeekParams) Description() string {
	tokens := []string{
		strconv.FormatFloat(p.Rate, 'f', -1, 64),
		strconv.Itoa(p.Format),
		strconv.Itoa(p.Flags),
		strconv.Itoa(p.StartType),
		strconv.FormatInt(p.Start, 10),
		strconv.Itoa(p.EndType),
		strconv.FormatInt(p.End, 10),
	}

	return strings.Join(tokens, " ")
}

// DebugLevel is the daemon's global GStreamer debug threshold.
type DebugLevel int

// Debug thresholds accepted by the daemon.
const (
	DebugNone    DebugLevel = 0
	DebugError   DebugLevel = 1
	DebugWarning DebugLevel = 2
	DebugFixme   DebugLevel = 3
	DebugInfo    DebugLevel = 4
	DebugDebug   DebugLevel = 5
	DebugLog     DebugLevel = 6
	DebugTrace   DebugLevel = 7
	DebugMemdump DebugLevel = 9
)

// Valid reports whether the level is one the daemon accepts.
func (l DebugLevel) Valid() bool {
	return (l >= DebugNone && l <= DebugTrace) || l == DebugMemdump
}

// WaitForever asks the daemon to block without a timeout.
const WaitForever time.Duration = -1

// BusTimeoutValue converts a duration into the bus timeout wire value
// (nanoseconds, -1 for no timeout).
func BusTimeoutValue(timeout time.Duration) string {
	if timeout < 0 {
		return "-1"
	}

	return strconv.FormatInt(timeout.Nanoseconds(), 10)
}

// SignalTimeoutValue converts a duration into the signal timeout wire value
// (microseconds, -1 for no timeout).
func SignalTimeoutValue(timeout time.Duration) string {
	if timeout < 0 {
		return "-1"
	}

	return strconv.FormatInt(timeout.Microseconds(), 10)
}

// FormatValue renders a property value the way the daemon expects it on the
// wire: as its plain textual representation.
func FormatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(value)
	}
}
