package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/cli"
	"github.com/rshade/enviroimpact/pkg/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitCode(err, stderr)
	}
	return 0
}

// exitCode prints err unless it was already shown, and returns 1.
func exitCode(err error, stderr io.Writer) int {
	var reported *cli.ReportedError
	if !errors.As(err, &reported) {
		_, _ = fmt.Fprintln(stderr, "Error: "+api.UserMessage(err))
	}
	return 1
}
