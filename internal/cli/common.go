package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/config"
	"github.com/rshade/enviroimpact/internal/engine"
	"github.com/rshade/enviroimpact/internal/greenops"
)

// OutputFormat names a non-interactive output encoding.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// tabPadding is the column gap used by tabwriter tables.
const tabPadding = 2

// resolveOutputFormat returns the effective format for flag, falling back to
// the configured default.
func resolveOutputFormat(flag string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(config.GetOutputFormat(flag)))
	switch f {
	case OutputTable, OutputJSON, OutputNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use table, json or ndjson)", f)
	}
}

// resolveTimeFrame parses flag, falling back to the configured frame.
func resolveTimeFrame(flag string) (engine.TimeFrame, error) {
	if flag == "" {
		flag = config.GetGlobalConfig().Output.TimeFrame
	}
	return engine.ParseTimeFrame(flag)
}

// newClient builds a calculation service client from the global config.
func newClient() *api.Client {
	cfg := config.GetGlobalConfig()
	return api.NewClient(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout))
}

// newFormatter returns the formatter for the configured locale. An unknown
// locale is logged and English is used.
func newFormatter(cmd *cobra.Command) *greenops.Formatter {
	locale := config.GetGlobalConfig().Output.Locale
	f, err := greenops.NewFormatter(locale)
	if err != nil {
		logger.Warn().Ctx(cmd.Context()).Err(err).Str("locale", locale).Msg("falling back to English number formatting")
		return greenops.DefaultFormatter()
	}
	return f
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeNDJSON writes each item on its own line.
func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// ReportedError marks a failure whose message has already been shown to the
// user. main exits non-zero without printing it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// reportError prints err the way users see service errors.
func reportError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(api.UserMessage(err))
	return &ReportedError{Err: err}
}
