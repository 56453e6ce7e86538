package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// NewDebugCommand creates the debug command group.
func NewDebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Tune daemon debug output",
		Long:  "Enable GStreamer debug output on the daemon and set its threshold",
	}

	cmd.AddCommand(newDebugToggleCommand("enable", "Enable or disable debug output", (gstd.DebugClient).SetEnabled))
	cmd.AddCommand(newDebugToggleCommand("color", "Enable or disable colored debug output", (gstd.DebugClient).SetColor))
	cmd.AddCommand(newDebugToggleCommand("reset", "Reset thresholds before applying a new one", (gstd.DebugClient).Reset))
	cmd.AddCommand(newDebugThresholdCommand())

	return cmd
}

func newDebugToggleCommand(
	use, short string,
	set func(gstd.DebugClient, context.Context, bool) (*gstd.Envelope, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " true|false",
		Short: short,
		Long:  short,
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			enable, err := ParseBool(args[0])
			if err != nil {
				return err
			}

			status := constants.StatusDisabled
			if enable {
				status = constants.StatusEnabled
			}

			message := fmt.Sprintf("Debug %s: %s", use, status)

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return set(client.Debug(), ctx, enable)
			})
		},
	}
}

func newDebugThresholdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "threshold LEVEL",
		Short: "Set the debug threshold",
		Long: `Set the global debug threshold:
  0 none, 1 error, 2 warning, 3 fixme, 4 info, 5 debug, 6 log, 7 trace, 9 memdump`,
		Args: cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", gstd.ErrInvalidDebugLevel, args[0])
			}

			message := fmt.Sprintf("Debug threshold: %d", level)

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Debug().SetThreshold(ctx, gstd.DebugLevel(level))
			})
		},
	}
}
