package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/engine"
	"github.com/rshade/enviroimpact/internal/engine/chart"
	"github.com/rshade/enviroimpact/internal/tui"
)

// errNotTerminal is returned when the form is started without a TTY.
var errNotTerminal = errors.New("interactive mode requires a terminal; use `enviroimpact calculate` instead")

// NewInteractiveCmd creates the "interactive" command, a terminal form with
// live results, tooltips, benchmark charts and a year/month toggle.
func NewInteractiveCmd() *cobra.Command {
	var (
		timeFrame string
		altScreen bool
	)

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"tui"},
		Short:   "Fill in the facility form in the terminal",
		Long: `Open an interactive form. Regions and facility types are loaded from the
calculation service; press s to calculate, t to switch between yearly and
monthly figures, a to show the advanced overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminalStream(cmd.InOrStdin()) || !isTerminalStream(cmd.OutOrStdout()) {
				return errNotTerminal
			}
			frame, err := resolveTimeFrame(timeFrame)
			if err != nil {
				return err
			}
			return runInteractive(cmd, frame, altScreen)
		},
	}

	cmd.Flags().StringVar(&timeFrame, "time-frame", "", "Initial time frame: year or month (default from config)")
	cmd.Flags().BoolVar(&altScreen, "alt-screen", false, "Use the terminal's alternate screen")
	return cmd
}

func runInteractive(cmd *cobra.Command, frame engine.TimeFrame, altScreen bool) error {
	ctx := cmd.Context()
	f := newFormatter(cmd)

	panels := tui.NewTextRenderer(chartBarWidth, true)
	session := engine.NewSession(newClient(), f, frame, chart.NewRegistry(panels, f))
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Ctx(ctx).Err(err).Msg("releasing charts")
		}
	}()

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	model := tui.NewCalculatorModel(ctx, session, panels)
	defer model.Close()

	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// isTerminalStream reports whether v is a file attached to a terminal.
func isTerminalStream(v any) bool {
	f, ok := v.(*os.File)
	return ok && tui.IsTerminal(f)
}
