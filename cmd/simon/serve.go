package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-simon/internal/monitor"
	"github.com/vovakirdan/tui-simon/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simon SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game with the ruleset menu. Results are
stored per-server (all users share the same scoreboard); an unfinished
game is kept per user name. Sound stays off for remote players.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.simon/host_key

With --metrics, Prometheus metrics are served at http://<addr>/metrics.

Examples:
  simon serve                           # Listen on :23234 with auto-generated key
  simon serve --ssh :2222               # Listen on port 2222
  simon serve --host-key ./my_host_key  # Use specific host key
  simon serve --metrics :9090           # Also export metrics

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address (off when empty)")
}

func runServe(_ *cobra.Command, _ []string) error {
	game, err := loadConfig("")
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var metrics *monitor.Metrics
	if flagMetricsAddr != "" {
		metrics = monitor.NewMetrics()
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, game, metrics)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	logger := server.Logger()
	logger.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsDone := make(chan error, 1)
	if metrics != nil {
		ms, err := metrics.Listen(flagMetricsAddr)
		if err != nil {
			server.Shutdown()
			return fmt.Errorf("metrics listener: %w", err)
		}
		logger.Info("serving metrics", "address", ms.Addr())
		go func() { metricsDone <- ms.Serve(ctx) }()
	} else {
		metricsDone <- nil
	}

	fmt.Printf("Starting simon SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()
	cancel()
	if err := <-metricsDone; err != nil {
		logger.Error("metrics server", "error", err)
	}
	if serveErr != nil {
		return fmt.Errorf("server: %w", serveErr)
	}
	return nil
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
