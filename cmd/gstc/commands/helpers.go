package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/internal/log"
	"github.com/skylineagle/gstd-go/pkg/gstd"
	"github.com/skylineagle/gstd-go/pkg/gstdclient"
)

// Common string constants used throughout the commands package.
const (
	OutputFormatJSON = constants.FormatJSON
	OutputFormatYAML = constants.FormatYAML

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidSeekValue = errors.New("invalid seek value")
)

// CreateClient builds a daemon client from the merged flag, env and file
// configuration.
func CreateClient() (gstd.Client, error) {
	config := &gstd.Config{
		URL:         viper.GetString("url"),
		Host:        viper.GetString("host"),
		Port:        viper.GetInt("port"),
		HTTPTimeout: viper.GetDuration("timeout"),
		RetryMax:    viper.GetInt("retries"),
		Tracing:     viper.GetBool("trace"),
	}

	chain := gstd.NewInterceptorChain()
	chain.AddRequestInterceptor(gstd.RequestIDInterceptor())

	if token := viper.GetString("token"); token != "" {
		chain.AddRequestInterceptor(gstd.AuthenticationInterceptor(func(context.Context) (string, error) {
			return token, nil
		}))
	}

	if viper.GetBool("verbose") {
		logger, err := NewLogger()
		if err != nil {
			return nil, err
		}

		config.Debug = true
		config.Logger = log.NewAdapter(log.WithComponent(logger, "http"))
	}

	config.Interceptors = chain

	client, err := gstdclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// NewLogger builds the CLI logger. Verbose mode lowers the level to debug.
func NewLogger() (zerolog.Logger, error) {
	level := viper.GetString("log_level")
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel.String()
	}

	return log.New(log.Config{Level: level, Output: os.Stderr, Console: true})
}

// CommandContext returns a context cancelled on SIGINT or SIGTERM, so a
// blocking bus or signal wait can be interrupted.
func CommandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// OutputFormat returns the configured output format.
func OutputFormat() (string, error) {
	output := strings.ToLower(viper.GetString("output"))

	switch output {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutput, output)
	}
}

// Render writes data as JSON or YAML, or calls table for the table format.
func Render(w io.Writer, data interface{}, table func(io.Writer) error) error {
	output, err := OutputFormat()
	if err != nil {
		return err
	}

	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("encoding YAML output: %w", err)
		}

		return encoder.Close()
	default:
		return table(w)
	}
}

// RenderTable writes rows under header.
func RenderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(header)...)

	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

// RenderNames prints a list of names, one per row.
func RenderNames(w io.Writer, header string, names []string) error {
	return Render(w, names, func(w io.Writer) error {
		if len(names) == 0 {
			_, _ = fmt.Fprintf(w, "No %s found\n", strings.ToLower(header))

			return nil
		}

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name})
		}

		return RenderTable(w, []string{header}, rows)
	})
}

// RenderEnvelope prints the daemon's acknowledgement of a command.
func RenderEnvelope(w io.Writer, envelope *gstd.Envelope, message string) error {
	return Render(w, envelope, func(w io.Writer) error {
		_, _ = fmt.Fprintln(w, message)

		return nil
	})
}

// RenderBusMessage prints one bus message, or a notice when the wait timed out.
func RenderBusMessage(w io.Writer, message *gstd.BusMessage) error {
	if message == nil {
		_, _ = fmt.Fprintln(w, "No message before timeout")

		return nil
	}

	return Render(w, message, func(w io.Writer) error {
		return RenderTable(w, []string{"Property", "Value"}, [][]string{
			{"Type", message.Type},
			{"Source", orNotAvailable(message.Source)},
			{"Timestamp", orNotAvailable(message.Timestamp)},
			{"Seqnum", fmt.Sprintf("%d", message.Seqnum)},
			{"Message", orNotAvailable(message.Message)},
			{"Debug", orNotAvailable(message.Debug)},
		})
	})
}

// RenderSignalEvent prints a signal emission, or a notice when the wait timed out.
func RenderSignalEvent(w io.Writer, event *gstd.SignalEvent) error {
	if event == nil {
		_, _ = fmt.Fprintln(w, "No signal before timeout")

		return nil
	}

	return Render(w, event, func(w io.Writer) error {
		_, _ = fmt.Fprintf(w, "Signal: %s\n", event.Name)

		rows := make([][]string, 0, len(event.Arguments))
		for i, argument := range event.Arguments {
			rows = append(rows, []string{fmt.Sprintf("%d", i), argument.Type, argument.Text()})
		}

		return RenderTable(w, []string{"#", "Type", "Value"}, rows)
	})
}

// StateTitle renders a state for humans, e.g. "Playing".
func StateTitle(state gstd.State) string {
	return cases.Title(language.English).String(string(state))
}

// ParseBool accepts true/false, yes/no, on/off and 1/0.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case constants.BooleanTrue, "yes", "on", "1":
		return true, nil
	case constants.BooleanFalse, "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", constants.ErrInvalidBoolean, value)
	}
}

// DescribeError formats err for the terminal, naming the classification code.
func DescribeError(err error) string {
	if clientErr, ok := gstd.AsClientError(err); ok {
		return fmt.Sprintf("Error: %v\nCode: %d (%s)", err, int(clientErr.Code), clientErr.Code)
	}

	if daemonErr, ok := gstd.AsDaemonError(err); ok {
		return fmt.Sprintf("Error: %v\nCode: %d (daemon)", err, daemonErr.Code)
	}

	return fmt.Sprintf("Error: %v", err)
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
