package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/pkg/devtools"
	"github.com/vango-dev/connect/pkg/store"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		addr     string
		open     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the devtools inspector",
		Long: `Mount the counter application and serve the devtools inspector.

Routes:
  GET  /state        current state
  GET  /connectors   connected components
  GET  /ws           state pushed after every dispatch
  POST /reload       refresh every connector generation
  GET  /metrics      Prometheus metrics

With --interval the counter is incremented periodically so the inspector
has something to show.

Examples:
  connectdemo inspect
  connectdemo inspect --open --interval=2s
  connectdemo inspect --addr=0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			if open {
				cfg.Inspector.Open = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := newDemo(ctx, cfg, slog.Default())
			if err := d.mount(); err != nil {
				return err
			}
			defer d.unmount()

			insp := devtools.New(d.store, d.registry, devtools.Config{
				Addr:     cfg.Inspector.Addr,
				Gatherer: d.gatherer,
				Logger:   slog.Default(),
			})
			d.onError = insp.ReportError

			errCh := make(chan error, 1)
			go func() { errCh <- insp.Start(ctx) }()

			success("Inspector at %s", cfg.InspectorURL())
			if cfg.Inspector.Open {
				go func() {
					// Give the listener a moment to come up.
					time.Sleep(200 * time.Millisecond)
					if err := browser.OpenURL(cfg.InspectorURL()); err != nil {
						warn("Could not open browser: %v", err)
					}
				}()
			}

			return drive(ctx, d, interval, errCh)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the inspector in a browser")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Increment the counter at this interval")

	return cmd
}

// drive dispatches on the calling goroutine until ctx is done or the
// inspector fails.
func drive(ctx context.Context, d *demo, interval time.Duration, errCh <-chan error) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			info("Shutting down...")
			return <-errCh
		case err := <-errCh:
			return err
		case <-tick:
			d.store.Dispatch(store.Action{Type: actionIncrement})
			if err := d.root.Err(); err != nil {
				return err
			}
		}
	}
}
