package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/engine"
)

// ReferenceEntry is one accepted value of a select input.
type ReferenceEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NewRegionsCmd creates the "regions" command.
func NewRegionsCmd() *cobra.Command {
	return newReferenceCmd("regions", "List the regions the calculation service accepts",
		func(d engine.ReferenceData) engine.SelectInput { return d.Regions })
}

// NewFacilityTypesCmd creates the "facility-types" command.
func NewFacilityTypesCmd() *cobra.Command {
	return newReferenceCmd("facility-types", "List the facility types the calculation service accepts",
		func(d engine.ReferenceData) engine.SelectInput { return d.FacilityTypes })
}

func newReferenceCmd(
	use, short string,
	pick func(engine.ReferenceData) engine.SelectInput,
) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			input := loadReferenceInput(cmd.Context(), pick)
			if !input.Loaded() {
				return reportError(cmd, input.Err)
			}
			return writeReference(cmd, format, ReferenceEntries(input))
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output format: table, json or ndjson (default from config)")
	return cmd
}

// loadReferenceInput runs the same concurrent load as the form and keeps the
// requested input.
func loadReferenceInput(
	ctx context.Context,
	pick func(engine.ReferenceData) engine.SelectInput,
) engine.SelectInput {
	return pick(engine.NewLoader(newClient()).Load(ctx))
}

// ReferenceEntries returns the selectable options of input, skipping the
// placeholder.
func ReferenceEntries(input engine.SelectInput) []ReferenceEntry {
	var out []ReferenceEntry
	for _, o := range input.Options {
		if o.Disabled || o.Value == "" {
			continue
		}
		out = append(out, ReferenceEntry{Value: o.Value, Label: o.Label})
	}
	return out
}

func writeReference(cmd *cobra.Command, format OutputFormat, entries []ReferenceEntry) error {
	out := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		return writeJSON(out, entries)
	case OutputNDJSON:
		return writeNDJSON(out, entries)
	case OutputTable:
		tw := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
		fmt.Fprintln(tw, "Value\tLabel")
		fmt.Fprintln(tw, "-----\t-----")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Value, e.Label)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
