package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/enviroimpact/internal/logging"
)

// ResolveProjectDir determines the project-local .enviroimpact directory.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. ENVIROIMPACT_PROJECT_DIR env var
//  3. startDir, if it contains a .enviroimpact directory
//
// Returns an absolute path or "" when no project directory applies.
// Does NOT create the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	candidate := filepath.Join(startDir, configDirName)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return toAbsProjectDir(ctx, candidate)
	}
	return ""
}

// NewWithProjectDir creates a Config by loading the user config then
// shallow-merging the project-local config.yaml on top. Environment
// overrides are applied last so they always win.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := fromUserFile()
	defer cfg.applyProcessEnv()

	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := *cfg
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using user config")
		return cfg
	}
	*cfg = merged

	return cfg
}

// toAbsProjectDir converts dir to an absolute path ending in .enviroimpact.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == configDirName {
		return abs
	}

	return filepath.Join(abs, configDirName)
}

//nolint:gochecknoglobals // Set once per command invocation by the root command.
var (
	resolvedProjectDir   string
	resolvedProjectDirMu sync.RWMutex
)

// SetResolvedProjectDir records the project directory chosen for this run.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the project directory chosen for this run,
// or "" when none applies.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}
