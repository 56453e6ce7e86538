package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/internal/log"
	"github.com/skylineagle/gstd-go/internal/relay"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// NewBusCommand creates the bus command group.
func NewBusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bus",
		Short: "Read pipeline bus messages",
		Long:  "Read, filter and wait for messages on a pipeline bus, or relay them to NATS",
	}

	cmd.AddCommand(newBusReadCommand())
	cmd.AddCommand(newBusFilterCommand())
	cmd.AddCommand(newBusTimeoutCommand())
	cmd.AddCommand(newBusWaitCommand())
	cmd.AddCommand(newBusRelayCommand())

	return cmd
}

func newBusReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read PIPELINE",
		Short: "Read one bus message",
		Long:  "Read the next message that passes the bus filter, waiting up to the bus timeout",
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx, cancel := CommandContext(cmd)
			defer cancel()

			message, err := client.Bus().Read(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to read bus of pipeline %s: %w", args[0], err)
			}

			return RenderBusMessage(cmd.OutOrStdout(), message)
		},
	}
}

func newBusFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter PIPELINE TYPES",
		Short: "Set the bus filter",
		Long:  `Set the message types the bus read returns, e.g. "error+eos" or "all"`,
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := fmt.Sprintf("Bus filter of %s: %s", args[0], args[1])

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Bus().SetFilter(ctx, args[0], args[1])
			})
		},
	}
}

func newBusTimeoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timeout PIPELINE DURATION",
		Short: "Set the bus timeout",
		Long:  `Set how long a bus read waits, e.g. "500ms" or "2s". A negative value waits forever.`,
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("invalid timeout %q: %w", args[1], err)
			}

			message := fmt.Sprintf("Bus timeout of %s: %s", args[0], timeout)

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Bus().SetTimeout(ctx, args[0], timeout)
			})
		},
	}
}

func newBusWaitCommand() *cobra.Command {
	var (
		filter  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait PIPELINE",
		Short: "Wait for a bus message",
		Long: `Set the bus filter and timeout, then read one message.

Example:
  gstc bus wait p1 --filter eos --timeout 10s`,
		Args: cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx, cancel := CommandContext(cmd)
			defer cancel()

			message, err := client.Bus().WaitForMessage(ctx, args[0], filter, timeout)
			if err != nil {
				return fmt.Errorf("failed to wait on bus of pipeline %s: %w", args[0], err)
			}

			return RenderBusMessage(cmd.OutOrStdout(), message)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", constants.DefaultRelayFilter, "message types to wait for")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "daemon-side wait (0 keeps the current bus timeout, negative waits forever)")

	return cmd
}

func newBusRelayCommand() *cobra.Command {
	var (
		filter  string
		subject string
		natsURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "relay PIPELINE",
		Short: "Relay bus messages to NATS",
		Long: `Publish every bus message of a pipeline to a NATS subject until interrupted.

Each message is published as {"pipeline": ..., "message": {...}} on
gstd.bus.<pipeline> unless --subject is given.`,
		Args: cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			logger, err := NewLogger()
			if err != nil {
				return err
			}

			if natsURL == "" {
				natsURL = viper.GetString("nats_url")
			}

			if natsURL == "" {
				natsURL = constants.DefaultNATSURL
			}

			publisher, err := relay.NewNATSPublisher(natsURL, constants.ShortHTTPTimeout)
			if err != nil {
				return err
			}

			defer func() { _ = publisher.Close() }()

			ctx, cancel := CommandContext(cmd)
			defer cancel()

			r := &relay.Relay{
				Bus:       client.Bus(),
				Publisher: publisher,
				Pipeline:  args[0],
				Filter:    filter,
				Subject:   subject,
				Timeout:   timeout,
				Logger:    logger.With().Str(log.FieldURL, natsURL).Logger(),
			}

			if err := r.Run(ctx); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Relayed %d messages\n", r.Published())

			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", constants.DefaultRelayFilter, "message types to relay")
	cmd.Flags().StringVar(&subject, "subject", "", "NATS subject (default gstd.bus.<pipeline>)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (default "+constants.DefaultNATSURL+")")
	cmd.Flags().DurationVar(&timeout, "timeout", constants.DefaultRelayTimeout, "daemon-side wait per read")

	return cmd
}
