package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// NewPipelinesCommand creates the pipelines command group.
func NewPipelinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pipelines",
		Aliases: []string{"pipeline", "p"},
		Short:   "Manage pipelines",
		Long:    "Create, drive, inspect and delete GStreamer pipelines on the daemon",
	}

	cmd.AddCommand(newPipelinesListCommand())
	cmd.AddCommand(newPipelinesCreateCommand())
	cmd.AddCommand(newPipelinesDeleteCommand())
	cmd.AddCommand(newPipelinesStateCommand("play", gstd.StatePlaying))
	cmd.AddCommand(newPipelinesStateCommand("pause", gstd.StatePaused))
	cmd.AddCommand(newPipelinesStateCommand("stop", gstd.StateNull))
	cmd.AddCommand(newPipelinesSetStateCommand())
	cmd.AddCommand(newPipelinesGraphCommand())
	cmd.AddCommand(newPipelinesVerboseCommand())

	return cmd
}

func newPipelinesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pipelines",
		Long:  "List the names of all pipelines known to the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesCommand(cmd, "Pipelines", func(ctx context.Context, client gstd.Client) ([]string, error) {
				return client.Pipelines().List(ctx)
			})
		},
	}
}

func newPipelinesCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME DESCRIPTION",
		Short: "Create a pipeline",
		Long: `Create a pipeline from a gst-launch style description.

The description must be quoted as a single argument, e.g.
  gstc pipelines create p1 "videotestsrc ! autovideosink"`,
		Args: cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvelopeCommand(cmd, fmt.Sprintf("Created pipeline %s", args[0]),
				func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
					return client.Pipelines().Create(ctx, args[0], args[1])
				})
		},
	}
}

func newPipelinesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a pipeline",
		Long:    "Delete a pipeline. The daemon stops it first if it is running.",
		Args:    cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvelopeCommand(cmd, fmt.Sprintf("Deleted pipeline %s", args[0]),
				func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
					return client.Pipelines().Delete(ctx, args[0])
				})
		},
	}
}

func newPipelinesStateCommand(use string, state gstd.State) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: fmt.Sprintf("Set a pipeline to %s", StateTitle(state)),
		Long:  fmt.Sprintf("Request the %s state for a pipeline", StateTitle(state)),
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvelopeCommand(cmd, fmt.Sprintf("Pipeline %s: %s", args[0], StateTitle(state)),
				func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
					return client.Pipelines().SetState(ctx, args[0], state)
				})
		},
	}
}

func newPipelinesSetStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state NAME STATE",
		Short: "Set a pipeline state",
		Long:  "Request a pipeline state: null (or stop), paused (or pause), playing (or play)",
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := gstd.ParseState(args[1])
			if err != nil {
				return err
			}

			return runEnvelopeCommand(cmd, fmt.Sprintf("Pipeline %s: %s", args[0], StateTitle(state)),
				func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
					return client.Pipelines().SetState(ctx, args[0], state)
				})
		},
	}
}

func newPipelinesGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph NAME",
		Short: "Print a pipeline graph",
		Long:  "Print the pipeline's topology as reported by the daemon (DOT format)",
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx, cancel := CommandContext(cmd)
			defer cancel()

			envelope, err := client.Pipelines().Graph(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get graph of pipeline %s: %w", args[0], err)
			}

			return RenderEnvelope(cmd.OutOrStdout(), envelope, payloadText(envelope))
		},
	}
}

func newPipelinesVerboseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verbose NAME true|false",
		Short: "Toggle verbose mode on a pipeline",
		Long:  "Enable or disable verbose property change notifications on a pipeline",
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			enable, err := ParseBool(args[1])
			if err != nil {
				return err
			}

			return runEnvelopeCommand(cmd, fmt.Sprintf("Pipeline %s verbose: %t", args[0], enable),
				func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
					return client.Pipelines().Verbose(ctx, args[0], enable)
				})
		},
	}
}

// runEnvelopeCommand runs a command whose only result is the daemon's
// acknowledgement.
func runEnvelopeCommand(
	cmd *cobra.Command,
	message string,
	call func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error),
) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx, cancel := CommandContext(cmd)
	defer cancel()

	envelope, err := call(ctx, client)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.CommandPath(), err)
	}

	return RenderEnvelope(cmd.OutOrStdout(), envelope, message)
}

// payloadText returns the envelope payload, unquoted when it is a string.
func payloadText(envelope *gstd.Envelope) string {
	if envelope == nil || !envelope.HasResponse() {
		return constants.None
	}

	property := gstd.Property{Value: envelope.Response}

	return property.Text()
}
