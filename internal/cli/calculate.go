package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/config"
	"github.com/rshade/enviroimpact/internal/engine"
	"github.com/rshade/enviroimpact/internal/engine/chart"
	"github.com/rshade/enviroimpact/internal/tui"
)

// chartBarWidth is the width of text bar charts in table output.
const chartBarWidth = 30

// CalculateParams holds the parameters for the calculate command.
// Exported for testing.
type CalculateParams struct {
	// Form fields, sent as-is; the service validates them.
	Region               string
	FacilityType         string
	Size                 string
	UsagePattern         string
	CustomKwh            string
	CustomEmissionFactor string
	CustomPricePerKwh    string

	TimeFrame string
	Output    string
	ChartDir  string
	Plain     bool
}

// FormValues returns the form portion of p.
func (p CalculateParams) FormValues() api.FormValues {
	return api.FormValues{
		Region:               p.Region,
		FacilityType:         p.FacilityType,
		Size:                 p.Size,
		CustomKwh:            p.CustomKwh,
		UsagePattern:         p.UsagePattern,
		CustomEmissionFactor: p.CustomEmissionFactor,
		CustomPricePerKwh:    p.CustomPricePerKwh,
	}
}

// CalculateOutput is the JSON document written by --output json.
type CalculateOutput struct {
	engine.Snapshot
	Charts []string `json:"charts,omitempty"`
}

// MetricRow is one line of --output ndjson.
type MetricRow struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Display   string  `json:"display"`
	Unit      string  `json:"unit"`
	TimeFrame string  `json:"time_frame"`
	Tooltip   string  `json:"tooltip"`
}

// NewCalculateCmd creates the "calculate" command, which submits one
// facility to the calculation service and prints the scaled result.
func NewCalculateCmd() *cobra.Command {
	var params CalculateParams

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate energy use, emissions and cost for a facility",
		Long: `Submit a facility description to the calculation service and print the
estimated energy use, CO₂ emissions and cost, scaled to a year or a month.

Optional overrides (--custom-kwh, --custom-emission-factor,
--custom-price-per-kwh) must be positive numbers; anything else is ignored
with a warning and the service default is used.`,
		Example: `  # Monthly figures for a medium office in Oslo
  enviroimpact calculate --region Oslo --facility-type office --size medium \
    --usage-pattern office_hours --time-frame month

  # Machine-readable output
  enviroimpact calculate --region Oslo --facility-type office --size medium \
    --usage-pattern office_hours --output json

  # Write benchmark charts as SVG files
  enviroimpact calculate --region Bergen --facility-type retail --size large \
    --usage-pattern extended_hours --chart-dir ./charts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCalculate(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Region, "region", "", "Region name (see `enviroimpact regions`)")
	cmd.Flags().StringVar(&params.FacilityType, "facility-type", "",
		"Facility type (see `enviroimpact facility-types`)")
	cmd.Flags().StringVar(&params.Size, "size", "", "Facility size: "+strings.Join(api.Sizes, ", "))
	cmd.Flags().StringVar(&params.UsagePattern, "usage-pattern", "",
		"Usage pattern: "+strings.Join(api.UsagePatterns, ", "))
	cmd.Flags().StringVar(&params.CustomKwh, "custom-kwh", "", "Known yearly consumption in kWh")
	cmd.Flags().StringVar(&params.CustomEmissionFactor, "custom-emission-factor", "",
		"Emission factor in kg CO₂ per kWh")
	cmd.Flags().StringVar(&params.CustomPricePerKwh, "custom-price-per-kwh", "", "Electricity price in NOK per kWh")

	cmd.Flags().StringVar(&params.TimeFrame, "time-frame", "", "Display time frame: year or month (default from config)")
	cmd.Flags().StringVar(&params.Output, "output", "", "Output format: table, json or ndjson (default from config)")
	cmd.Flags().StringVar(&params.ChartDir, "chart-dir", "", "Write benchmark charts as SVG files into this directory")
	cmd.Flags().BoolVar(&params.Plain, "plain", false, "Disable colours and box drawing in table output")

	return cmd
}

// ValidateCalculateFlags checks the flags that are interpreted locally.
// Form fields are left to the service. Exported for testing.
func ValidateCalculateFlags(params *CalculateParams) error {
	var errs []error
	if params.TimeFrame != "" {
		if _, err := engine.ParseTimeFrame(params.TimeFrame); err != nil {
			errs = append(errs, fmt.Errorf("--time-frame: %w", err))
		}
	}
	if params.Output != "" {
		switch OutputFormat(strings.ToLower(params.Output)) {
		case OutputTable, OutputJSON, OutputNDJSON:
		default:
			errs = append(errs, fmt.Errorf("--output %q must be table, json or ndjson", params.Output))
		}
	}
	return errors.Join(errs...)
}

// IgnoredOverrides names the optional numeric flags that were given but are
// not positive numbers. They are sent as null. Exported for testing.
func IgnoredOverrides(params CalculateParams) []string {
	var ignored []string
	for _, o := range []struct{ flag, raw string }{
		{"custom-kwh", params.CustomKwh},
		{"custom-emission-factor", params.CustomEmissionFactor},
		{"custom-price-per-kwh", params.CustomPricePerKwh},
	} {
		if strings.TrimSpace(o.raw) != "" && api.ParseOptionalPositive(o.raw) == nil {
			ignored = append(ignored, o.flag)
		}
	}
	return ignored
}

func executeCalculate(cmd *cobra.Command, params CalculateParams) error {
	if err := ValidateCalculateFlags(&params); err != nil {
		return err
	}
	format, err := resolveOutputFormat(params.Output)
	if err != nil {
		return err
	}
	frame, err := resolveTimeFrame(params.TimeFrame)
	if err != nil {
		return err
	}
	for _, flag := range IgnoredOverrides(params) {
		cmd.PrintErrf("Warning: ignoring --%s: not a positive number\n", flag)
	}

	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()
	f := newFormatter(cmd)
	mode := tui.DetectOutputMode(params.Plain, false, false)

	chartDir := params.ChartDir
	if chartDir == "" {
		chartDir = cfg.Charts.Directory
	}

	var (
		registry *chart.Registry
		panels   *tui.TextRenderer
	)
	switch {
	case chartDir != "":
		svg, svgErr := chart.NewSVGRenderer(chartDir, cfg.Charts.Width, cfg.Charts.Height)
		if svgErr != nil {
			return fmt.Errorf("preparing chart directory: %w", svgErr)
		}
		registry = chart.NewRegistry(svg, f)
	case format == OutputTable:
		panels = tui.NewTextRenderer(chartBarWidth, mode == tui.OutputModeStyled)
		registry = chart.NewRegistry(panels, f)
	}

	session := engine.NewSession(newClient(), f, frame, registry)
	req := api.NewCalculationRequest(params.FormValues())

	logger.Debug().Ctx(ctx).
		Str("operation", "calculate").
		Str("region", req.Region).
		Str("facility_type", req.FacilityType).
		Str("time_frame", frame.String()).
		Msg("submitting calculation")

	snap, err := session.Submit(ctx, req)
	if err != nil {
		if !snap.HasResult {
			return reportError(cmd, err)
		}
		cmd.PrintErrf("Warning: %v\n", err)
	}

	out := cmd.OutOrStdout()
	files := chartFiles(registry)
	switch format {
	case OutputJSON:
		return writeJSON(out, CalculateOutput{Snapshot: snap, Charts: files})
	case OutputNDJSON:
		return writeNDJSON(out, MetricRows(snap))
	case OutputTable:
		if mode == tui.OutputModeStyled {
			return renderStyledCalculate(out, snap, panels, files)
		}
		return renderPlainCalculate(out, snap, panels, files)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// MetricRows flattens snap into one row per result figure.
func MetricRows(snap engine.Snapshot) []MetricRow {
	if !snap.HasResult {
		return nil
	}
	per := "/" + snap.Frame
	return []MetricRow{
		{"energy", snap.Values.Kwh, snap.Display.Kwh, "kWh" + per, snap.Frame, snap.Tooltips.Usage},
		{"emissions", snap.Values.Co2Kg, snap.Display.Co2Kg, "kg CO₂" + per, snap.Frame, snap.Tooltips.Emissions},
		{"cost", snap.Values.CostNok, snap.Display.CostNok, "NOK" + per, snap.Frame, snap.Tooltips.Cost},
	}
}

// chartFiles lists the SVG files written for the live slots.
func chartFiles(registry *chart.Registry) []string {
	if registry == nil {
		return nil
	}
	var files []string
	for _, slot := range registry.LiveSlots() {
		h, ok := registry.Handle(slot)
		if !ok {
			continue
		}
		if fh, isFile := h.(*chart.FileHandle); isFile {
			files = append(files, fh.Path())
		}
	}
	return files
}

func renderPlainCalculate(w io.Writer, snap engine.Snapshot, panels *tui.TextRenderer, files []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Metric\tValue\tUnit")
	fmt.Fprintln(tw, "------\t-----\t----")
	rows := MetricRows(snap)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Metric, r.Display, r.Unit)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%s: %s\n", r.Metric, r.Tooltip)
	}
	if snap.Equivalency != "" {
		fmt.Fprintln(w, snap.Equivalency)
	}
	writeCharts(w, panels, files)
	return nil
}

func renderStyledCalculate(w io.Writer, snap engine.Snapshot, panels *tui.TextRenderer, files []string) error {
	fmt.Fprintln(w, tui.RenderResults(snap))
	writeCharts(w, panels, files)
	return nil
}

func writeCharts(w io.Writer, panels *tui.TextRenderer, files []string) {
	if panels != nil {
		for _, p := range panels.Panels() {
			fmt.Fprintln(w)
			fmt.Fprintln(w, p)
		}
	}
	if len(files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Charts:")
		for _, f := range files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}
