package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// NewSignalsCommand creates the signals command group.
func NewSignalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "signals",
		Aliases: []string{"signal"},
		Short:   "Wait on element signals",
		Long:    "Connect to element signals, wait for them to fire, and tune the callback timeout",
	}

	cmd.AddCommand(newSignalsListCommand())
	cmd.AddCommand(newSignalsConnectCommand())
	cmd.AddCommand(newSignalsDisconnectCommand())
	cmd.AddCommand(newSignalsTimeoutCommand())
	cmd.AddCommand(newSignalsWaitCommand())

	return cmd
}

func newSignalsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PIPELINE ELEMENT",
		Short: "List element signals",
		Long:  "List the signal names of an element",
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesCommand(cmd, "Signals", func(ctx context.Context, client gstd.Client) ([]string, error) {
				return client.Signals().List(ctx, args[0], args[1])
			})
		},
	}
}

func newSignalsConnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect PIPELINE ELEMENT SIGNAL",
		Short: "Wait for a signal",
		Long:  "Block until the signal fires or the daemon-side signal timeout elapses",
		Args:  cobra.ExactArgs(constants.ThreeArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignalWait(cmd, args, func(ctx context.Context, client gstd.Client) (*gstd.SignalEvent, error) {
				return client.Signals().Connect(ctx, args[0], args[1], args[2])
			})
		},
	}
}

func newSignalsDisconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect PIPELINE ELEMENT SIGNAL",
		Short: "Disconnect from a signal",
		Long:  "Release any pending callback on the signal",
		Args:  cobra.ExactArgs(constants.ThreeArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := fmt.Sprintf("Disconnected %s.%s", args[1], args[2])

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Signals().Disconnect(ctx, args[0], args[1], args[2])
			})
		},
	}
}

func newSignalsTimeoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timeout PIPELINE ELEMENT SIGNAL DURATION",
		Short: "Set the signal timeout",
		Long:  `Set how long a signal callback waits, e.g. "1500us" or "2s". A negative value waits forever.`,
		Args:  cobra.ExactArgs(constants.FourArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := time.ParseDuration(args[3])
			if err != nil {
				return fmt.Errorf("invalid timeout %q: %w", args[3], err)
			}

			message := fmt.Sprintf("Signal timeout of %s.%s: %s", args[1], args[2], timeout)

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Signals().SetTimeout(ctx, args[0], args[1], args[2], timeout)
			})
		},
	}
}

func newSignalsWaitCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait PIPELINE ELEMENT SIGNAL",
		Short: "Set the timeout and wait for a signal",
		Long: `Set the signal timeout, then block until the signal fires.

Example:
  gstc signals wait p1 sink handoff --timeout 5s`,
		Args: cobra.ExactArgs(constants.ThreeArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignalWait(cmd, args, func(ctx context.Context, client gstd.Client) (*gstd.SignalEvent, error) {
				return client.Signals().WaitForSignal(ctx, args[0], args[1], args[2], timeout)
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", -1, "daemon-side wait (negative waits forever)")

	return cmd
}

func runSignalWait(
	cmd *cobra.Command,
	args []string,
	call func(ctx context.Context, client gstd.Client) (*gstd.SignalEvent, error),
) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx, cancel := CommandContext(cmd)
	defer cancel()

	event, err := call(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to wait for %s.%s: %w", args[1], args[2], err)
	}

	return RenderSignalEvent(cmd.OutOrStdout(), event)
}
