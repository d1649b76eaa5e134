package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// gitignoreContent keeps per-user artefacts out of a project-local .enviroimpact/ directory.
const gitignoreContent = `# enviroimpact project-local data (auto-generated)
# config.yaml is shared; charts, logs and secrets are not.
charts/
*.svg
*.log
.env
`

// GitignoreContent returns the .gitignore written into project-local
// .enviroimpact/ directories.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore creates dir/.gitignore unless one already exists. It
// reports whether a file was written and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(gitignorePath)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", gitignorePath, err)
	}

	if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, mkdirErr)
	}

	//nolint:gosec // .gitignore must be world-readable (0644).
	if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644); writeErr != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", gitignorePath, writeErr)
	}

	return true, nil
}
