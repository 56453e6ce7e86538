package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// seekFields is the number of values in a seek description.
const seekFields = 7

// NewEventsCommand creates the events command group.
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Send pipeline events",
		Long:    "Send end-of-stream, flush and seek events to a pipeline",
	}

	cmd.AddCommand(newEventsSimpleCommand("eos", "Send end-of-stream", (gstd.EventsClient).EOS))
	cmd.AddCommand(newEventsSimpleCommand("flush-start", "Start a flush", (gstd.EventsClient).FlushStart))
	cmd.AddCommand(newEventsSimpleCommand("flush-stop", "Stop a flush", (gstd.EventsClient).FlushStop))
	cmd.AddCommand(newEventsSeekCommand())

	return cmd
}

func newEventsSimpleCommand(
	use, short string,
	send func(gstd.EventsClient, context.Context, string) (*gstd.Envelope, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PIPELINE",
		Short: short,
		Long:  fmt.Sprintf("Send the %s event to a pipeline", use),
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := fmt.Sprintf("Sent %s to %s", use, args[0])

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return send(client.Events(), ctx, args[0])
			})
		},
	}
}

func newEventsSeekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   `seek PIPELINE ["RATE FORMAT FLAGS START_TYPE START END_TYPE END"]`,
		Short: "Send a seek event",
		Long: `Send a seek event. Without values the pipeline seeks back to the start
at normal rate ("1 3 1 1 0 1 -1"). Positions are in nanoseconds.

Example:
  gstc events seek p1 "1 3 1 1 5000000000 1 -1"`,
		Args: cobra.RangeArgs(constants.OneArgument, constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := gstd.DefaultSeekParams()

			if len(args) == constants.TwoArguments {
				parsed, err := ParseSeekParams(args[1])
				if err != nil {
					return err
				}

				params = parsed
			}

			message := fmt.Sprintf("Sent seek (%s) to %s", params.Description(), args[0])

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Events().Seek(ctx, args[0], params)
			})
		},
	}
}

// ParseSeekParams parses the seven space separated seek values.
func ParseSeekParams(value string) (gstd.SeekParams, error) {
	fields := strings.Fields(value)
	if len(fields) != seekFields {
		return gstd.SeekParams{}, fmt.Errorf("%w, got %d", constants.ErrInvalidSeekParams, len(fields))
	}

	var (
		params gstd.SeekParams
		err    error
	)

	if params.Rate, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return gstd.SeekParams{}, fmt.Errorf("%w: rate %q", ErrInvalidSeekValue, fields[0])
	}

	ints := []*int{&params.Format, &params.Flags, &params.StartType}
	for i, target := range ints {
		if *target, err = strconv.Atoi(fields[i+1]); err != nil {
			return gstd.SeekParams{}, fmt.Errorf("%w: %q", ErrInvalidSeekValue, fields[i+1])
		}
	}

	if params.Start, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
		return gstd.SeekParams{}, fmt.Errorf("%w: start %q", ErrInvalidSeekValue, fields[4])
	}

	if params.EndType, err = strconv.Atoi(fields[5]); err != nil {
		return gstd.SeekParams{}, fmt.Errorf("%w: end type %q", ErrInvalidSeekValue, fields[5])
	}

	if params.End, err = strconv.ParseInt(fields[6], 10, 64); err != nil {
		return gstd.SeekParams{}, fmt.Errorf("%w: end %q", ErrInvalidSeekValue, fields[6])
	}

	return params, nil
}
