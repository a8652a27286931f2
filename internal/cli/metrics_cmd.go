package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/spf13/cobra"
)

const defaultMetricsAddr = ":9464"

func newMetricsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Expose scheduler metrics",
	}
	cmd.AddCommand(newMetricsServeCmd(app))
	return cmd
}

func newMetricsServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Prometheus metrics over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Metrics == nil {
				return errors.New("metrics are not configured")
			}
			if !cmd.Flags().Changed("addr") && app.Config != nil && app.Config.Metrics.Addr != "" {
				addr = app.Config.Metrics.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := seedCurrentSchedule(ctx, app); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving metrics on http://%s/metrics\n", ln.Addr())
			return serveMetrics(ctx, ln, newMetricsMux(app.Metrics.Handler()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultMetricsAddr, "Listen address")
	return cmd
}

// seedCurrentSchedule loads the stored run into the schedule gauges so a
// fresh server reports what is planned, not zeros.
func seedCurrentSchedule(ctx context.Context, app *App) error {
	resp, err := app.Schedule.List(ctx)
	if err != nil {
		return fmt.Errorf("loading stored schedule: %w", err)
	}
	if resp.Run == nil {
		return nil
	}
	app.Metrics.SetCurrent(metrics.RunResult{
		Constrained:   resp.Run.ConstrainedCount,
		Unconstrained: resp.Run.UnconstrainedCount,
		Warnings:      len(resp.Run.Warnings),
		Makespan:      resp.Run.Makespan,
	})
	return nil
}

func newMetricsMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// serveMetrics serves on ln until ctx is done, then shuts down gracefully.
func serveMetrics(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down metrics server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
