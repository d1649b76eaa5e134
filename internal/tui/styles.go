// Package tui renders calculation results for terminals: lipgloss styles,
// output mode detection, text bar charts and the interactive calculator.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("212")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
	ColorSpinner   = lipgloss.Color("69")
	ColorBorder    = lipgloss.Color("238")
	ColorTarget    = lipgloss.Color("42")
	ColorActual    = lipgloss.Color("33")
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	FocusStyle    = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	BoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// Glyphs.
const (
	IconPointer  = "▸"
	IconBar      = "█"
	IconCursor   = "▌"
	IconDisabled = "⊘"
	IconInfo     = "ⓘ"
)

// OutputMode is how results are written to the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text (pipes, files, NO_COLOR).
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea calculator.
	OutputModeInteractive
)

func (m OutputMode) String() string {
	switch m {
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "plain"
	}
}

// DetectOutputMode picks a mode for stdout. forcePlain and noColor force
// plain output; interactive is only honoured on a terminal.
func DetectOutputMode(forcePlain, noColor, interactive bool) OutputMode {
	if forcePlain || noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if !IsTerminal(os.Stdout) {
		return OutputModePlain
	}
	if interactive {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

const defaultTerminalWidth = 80

// TerminalWidth returns the width of stdout, or 80 when unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTerminalWidth
	}
	return w
}

// LoadingState is a spinner with a message.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner showing message.
func NewLoadingState(message string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: message}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd { return l.spinner.Tick }

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// SetMessage replaces the message.
func (l *LoadingState) SetMessage(msg string) { l.message = msg }

// View renders spinner and message on one line.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
