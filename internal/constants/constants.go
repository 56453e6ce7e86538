package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Daemon address defaults.
const (
	// DefaultScheme is used when an address carries no scheme.
	DefaultScheme = "http"

	// DefaultHost is where gst-daemon listens out of the box.
	DefaultHost = "127.0.0.1"

	// DefaultPort is gst-daemon's default HTTP port.
	DefaultPort = 5001

	// DefaultUserAgent identifies this client to the daemon.
	DefaultUserAgent = "gstd-go/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is zero: waits block on the daemon side, so the
	// client sets no deadline of its own.
	DefaultHTTPTimeout = 0

	// ShortHTTPTimeout is used by quick CLI probes such as `gstc version`.
	ShortHTTPTimeout = 5 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is zero: the client does not retry on its own.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 100 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 2 * time.Second
)

// Bus relay defaults.
const (
	// DefaultRelayFilter forwards every bus message type.
	DefaultRelayFilter = "all"

	// DefaultRelayTimeout bounds each daemon-side bus read so the relay can
	// notice cancellation.
	DefaultRelayTimeout = time.Second

	// DefaultRelaySubjectPrefix prefixes relay subjects: <prefix>.<pipeline>.
	DefaultRelaySubjectPrefix = "gstd.bus"

	// DefaultNATSURL is used when the relay is started without --nats-url.
	DefaultNATSURL = "nats://127.0.0.1:4222"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// StatusEnabled indicates an enabled state.
	StatusEnabled = "enabled"

	// StatusDisabled indicates a disabled state.
	StatusDisabled = "disabled"
)

// Command argument counts.
const (
	// OneArgument indicates commands requiring a pipeline name.
	OneArgument = 1

	// TwoArguments indicates commands requiring pipeline and element.
	TwoArguments = 2

	// ThreeArguments indicates commands requiring pipeline, element and a third name.
	ThreeArguments = 3

	// FourArguments indicates commands requiring pipeline, element, property and value.
	FourArguments = 4
)
