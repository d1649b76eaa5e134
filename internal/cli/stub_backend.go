package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/enviroimpact/internal/logging"
	"github.com/rshade/enviroimpact/internal/stubbackend"
)

// NewStubBackendCmd creates the hidden "stub-backend" command, which serves
// a local calculation service with fixed Norwegian reference data.
func NewStubBackendCmd() *cobra.Command {
	var (
		addr    string
		latency time.Duration
		broken  []string
	)

	cmd := &cobra.Command{
		Use:    "stub-backend",
		Short:  "Serve a local calculation service for demos and tests",
		Hidden: true,
		Args:   cobra.NoArgs,
		Example: `  # Serve on the default URL used by the client
  enviroimpact stub-backend

  # Slow responses and a failing regions endpoint
  enviroimpact stub-backend --latency 2s --broken /regions`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []stubbackend.Option{
				stubbackend.WithLatency(latency),
				stubbackend.WithLogger(logging.ComponentLogger(*logging.FromContext(ctx), "stub-backend")),
			}
			for _, path := range broken {
				opts = append(opts, stubbackend.WithBrokenEndpoint(path))
			}

			cmd.PrintErrf("Stub backend listening on %s (Ctrl+C to stop)\n", addr)
			return stubbackend.New(opts...).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().DurationVar(&latency, "latency", 0, "delay every response")
	cmd.Flags().StringSliceVar(&broken, "broken", nil, "endpoint paths that answer 503 (repeatable)")
	return cmd
}
