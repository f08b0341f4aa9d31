package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/offline"
	"github.com/accountd/accountd/pkg/session"
)

var (
	metricsAddr    string
	sessionCommand string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the account engines as a long-lived process",
	Long: `serve loads configuration, instantiates the account engines and the
per-process object cache, and blocks until interrupted.

This repository ships no RPC transport: the daemon runs the offline
adapter as its own in-process request surface, matching this core's
externalization of the transport layer. A real deployment wires
pkg/accountapi's API behind whatever transport it builds.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9100); empty disables metrics")
	serveCmd.Flags().StringVar(&sessionCommand, "session-terminate-command", "", "External command invoked as '<command> <uid>' to terminate a deleted user's sessions")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load accountd config: %w", err)
	}
	cfg = config.Rebase(cfg, sysroot)

	var terminator session.Terminator = session.NoOp{}
	if sessionCommand != "" {
		terminator = session.NewExec(sessionCommand, 0)
	}

	adapter, err := offline.New(cfg, terminator)
	if err != nil {
		return fmt.Errorf("failed to initialize account engines: %w", err)
	}

	if metricsAddr != "" {
		adapter.API.EnableMetrics()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server exited", "error", err)
			}
		}()
		logger.Info("metrics endpoint listening", "addr", metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("accountd ready", "passwd", cfg.Files.Passwd, "shadow", cfg.Files.Shadow, "group", cfg.Files.Group, "gshadow", cfg.Files.GShadow)
	<-ctx.Done()
	logger.Info("accountd shutting down")
	return nil
}
