package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/enviroimpact/internal/cli"
)

func TestRun(t *testing.T) {
	t.Setenv("ENVIROIMPACT_HOME", t.TempDir())
	t.Setenv("ENVIROIMPACT_LOG_LEVEL", "error")

	t.Run("version flag", func(t *testing.T) {
		var stderr bytes.Buffer
		assert.Equal(t, 0, run(context.Background(), []string{"--version"}, &stderr))
		assert.Empty(t, stderr.String())
	})

	t.Run("unknown command", func(t *testing.T) {
		var stderr bytes.Buffer
		assert.Equal(t, 1, run(context.Background(), []string{"no-such-command"}, &stderr))
		assert.Contains(t, stderr.String(), "Error: unknown command")
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantOutput string
	}{
		{
			name:       "plain error is printed",
			err:        errors.New("boom"),
			wantOutput: "Error: boom\n",
		},
		{
			name:       "reported error is silent",
			err:        &cli.ReportedError{Err: errors.New("already shown")},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, 1, exitCode(tt.err, &stderr))
			assert.Equal(t, tt.wantOutput, stderr.String())
		})
	}
}
