package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Ingest a folder and follow it for new logs",
	Long: `Ingest every log in the folder, then keep running and append any log
file that appears or grows. With metrics enabled the collection gauges
are served on the Prometheus endpoint while watching. Stop with Ctrl-C.`,
	Example: `  radiuslog watch /var/log/nps
  radiuslog watch /var/log/nps --metrics --metrics-addr :9190`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if v, _ := cmd.Flags().GetBool("metrics"); v {
			cfg.Metrics.Enabled = true
		}
		if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
			cfg.Metrics.Addr = v
		}

		eng := newEngine()
		summary, err := eng.OpenSource(ctx, args[0])
		if err != nil {
			return fmt.Errorf("initial ingest failed: %w", err)
		}
		printSummary(summary)

		if cfg.Metrics.Enabled {
			go serveMetrics(ctx, cfg.Metrics.Addr)
		}

		w, err := watcher.New(args[0], log)
		if err != nil {
			return fmt.Errorf("watch %s: %w", args[0], err)
		}

		err = w.Run(ctx, func(ctx context.Context, path string) error {
			s, aerr := eng.Append(ctx, path)
			if aerr != nil {
				return aerr
			}
			output.Info("appended %s: %d sessions total", path, s.SessionCount)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// serveMetrics exposes the Prometheus registry for the lifetime of the
// watch. Errors are logged, not fatal: the watch is the primary job.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("metrics listener failed", logging.Err(err))
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("metrics", false, "serve Prometheus metrics while watching")
	watchCmd.Flags().String("metrics-addr", "", "metrics listen address (default from config)")
}
