package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/enviroimpact/internal/config"
)

// NewConfigInitCmd creates the config init command. With a project directory
// in effect (and no --global) it writes a project-local
// .enviroimpact/config.yaml plus a .gitignore; otherwise it writes the user
// config file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a configuration file with default values.

When a project directory is in effect (--project-dir, ENVIROIMPACT_PROJECT_DIR,
or a .enviroimpact directory in the working directory) the file is written to
that directory together with a .gitignore. Use --global to write the user
configuration instead.`,
		Example: `  # Create the user configuration
  enviroimpact config init

  # Create project-local configuration
  enviroimpact config init --project-dir .

  # Overwrite an existing file
  enviroimpact config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()
			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the user configuration even when a project directory is in effect")

	return cmd
}

// checkWritable refuses to overwrite path unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	if err := config.Defaults().Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore for charts, logs and .env\n")
	}
	return nil
}

func initGlobalConfig(cmd *cobra.Command, force bool) error {
	configPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	if err = checkWritable(configPath, force); err != nil {
		return err
	}

	if err = config.Defaults().Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)
	return nil
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after file, project, environment and flag overrides.
// Invalid settings are reported by the root command before it runs.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}

// NewConfigPathCmd creates the config path command.
func NewConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			cmd.Printf("user:    %s\n", path)
			if projectDir := config.GetResolvedProjectDir(); projectDir != "" {
				cmd.Printf("project: %s\n", filepath.Join(projectDir, "config.yaml"))
			}
			return nil
		},
	}
}
