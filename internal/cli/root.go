package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/config"
	"github.com/rshade/enviroimpact/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the enviroimpact CLI.
// It loads .env and configuration, wires up logging and tracing, and adds the
// calculate, reference data, interactive and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "enviroimpact",
		Short:         "Facility energy, CO₂ and cost estimator",
		Long:          "enviroimpact: Estimate a facility's yearly energy use, emissions and cost against best-practice benchmarks",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("backend-url", "", "calculation service URL (overrides config and env)")
	cmd.PersistentFlags().String("project-dir", "", "project-local .enviroimpact directory with a config.yaml overlay")

	cmd.AddCommand(
		NewCalculateCmd(),
		NewRegionsCmd(),
		NewFacilityTypesCmd(),
		NewInteractiveCmd(),
		newConfigCmd(),
		NewStubBackendCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Estimate a medium office in Oslo, shown per month
  enviroimpact calculate --region Oslo --facility-type office --size medium \
    --usage-pattern office_hours --time-frame month

  # Same estimate with a custom yearly consumption and SVG charts
  enviroimpact calculate --region Bergen --facility-type school --size large \
    --usage-pattern continuous --custom-kwh 42000 --chart-dir ./charts

  # List the options the service accepts
  enviroimpact regions
  enviroimpact facility-types

  # Fill in the form interactively
  enviroimpact interactive

  # Run the local stub service
  enviroimpact stub-backend --addr :8000`

// loadConfig reads .env, the user config and an optional project overlay,
// applies --backend-url, warns about invalid settings, and installs the
// result as the global config.
func loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		cmd.PrintErrf("Warning: could not load .env: %v\n", err)
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, workingDir())
	cfg := config.NewWithProjectDir(cmd.Context(), projectDir)

	if cmd.Flags().Changed("backend-url") {
		cfg.Backend.BaseURL, _ = cmd.Flags().GetString("backend-url")
	}

	if err := cfg.Validate(); err != nil {
		cmd.PrintErrf("Warning: configuration is invalid:\n%v\n", err)
	}

	config.SetGlobalConfig(cfg)
	config.SetResolvedProjectDir(projectDir)
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigPathCmd())
	return cmd
}
