package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// NewElementsCommand creates the elements command group.
func NewElementsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "elements",
		Aliases: []string{"element", "e"},
		Short:   "Inspect pipeline elements",
		Long:    "List elements, their properties and signals, and read or write property values",
	}

	cmd.AddCommand(newElementsListCommand())
	cmd.AddCommand(newElementsPropertiesCommand())
	cmd.AddCommand(newElementsSignalsCommand())
	cmd.AddCommand(newElementsGetCommand())
	cmd.AddCommand(newElementsSetCommand())

	return cmd
}

func newElementsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PIPELINE",
		Short: "List elements",
		Long:  "List the elements of a pipeline",
		Args:  cobra.ExactArgs(constants.OneArgument),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesCommand(cmd, "Elements", func(ctx context.Context, client gstd.Client) ([]string, error) {
				return client.Elements().List(ctx, args[0])
			})
		},
	}
}

func newElementsPropertiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "properties PIPELINE ELEMENT",
		Aliases: []string{"props"},
		Short:   "List element properties",
		Long:    "List the property names of an element",
		Args:    cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesCommand(cmd, "Properties", func(ctx context.Context, client gstd.Client) ([]string, error) {
				return client.Elements().ListProperties(ctx, args[0], args[1])
			})
		},
	}
}

func newElementsSignalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signals PIPELINE ELEMENT",
		Short: "List element signals",
		Long:  "List the signal names of an element",
		Args:  cobra.ExactArgs(constants.TwoArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesCommand(cmd, "Signals", func(ctx context.Context, client gstd.Client) ([]string, error) {
				return client.Elements().ListSignals(ctx, args[0], args[1])
			})
		},
	}
}

func newElementsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PIPELINE ELEMENT PROPERTY",
		Short: "Read a property",
		Long:  "Read the current value of an element property",
		Args:  cobra.ExactArgs(constants.ThreeArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx, cancel := CommandContext(cmd)
			defer cancel()

			property, err := client.Elements().Get(ctx, args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("failed to read %s.%s: %w", args[1], args[2], err)
			}

			return Render(cmd.OutOrStdout(), propertyView(property), func(w io.Writer) error {
				typeName := constants.NotAvailable
				if property.Param != nil && property.Param.Type != "" {
					typeName = property.Param.Type
				}

				return RenderTable(w, []string{"Property", "Value", "Type"}, [][]string{
					{property.Name, property.Text(), typeName},
				})
			})
		},
	}
}

func newElementsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set PIPELINE ELEMENT PROPERTY VALUE",
		Short: "Write a property",
		Long:  "Write an element property. The daemon parses VALUE according to the property type.",
		Args:  cobra.ExactArgs(constants.FourArguments),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := fmt.Sprintf("Set %s.%s = %s", args[1], args[2], args[3])

			return runEnvelopeCommand(cmd, message, func(ctx context.Context, client gstd.Client) (*gstd.Envelope, error) {
				return client.Elements().Set(ctx, args[0], args[1], args[2], args[3])
			})
		},
	}
}

// PropertyView is the structured output of `elements get`.
type PropertyView struct {
	Name  string              `json:"name"            yaml:"name"`
	Value string              `json:"value"           yaml:"value"`
	Param *gstd.PropertyParam `json:"param,omitempty" yaml:"param,omitempty"`
}

func propertyView(property *gstd.Property) PropertyView {
	return PropertyView{Name: property.Name, Value: property.Text(), Param: property.Param}
}

func runNamesCommand(
	cmd *cobra.Command,
	header string,
	call func(ctx context.Context, client gstd.Client) ([]string, error),
) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx, cancel := CommandContext(cmd)
	defer cancel()

	names, err := call(ctx, client)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.CommandPath(), err)
	}

	return RenderNames(cmd.OutOrStdout(), header, names)
}
