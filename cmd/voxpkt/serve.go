package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/voxboxor/voxboxor/internal/admin"
	"github.com/voxboxor/voxboxor/internal/config"
	"github.com/voxboxor/voxboxor/internal/logging"
	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/protocol/session"
	"github.com/voxboxor/voxboxor/internal/transport"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		adminAddr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a UDP handshake server",
		Long: `Run a UDP server that answers c_connect with s_connected, assigning
client peer ids, and releases them on c_disconnect.

An admin HTTP server exposes /health, /ready, /metrics, /peers and
/layouts unless admin_addr is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultNodeConfig()
			if configPath != "" {
				loaded, err := config.LoadNodeConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("admin") {
				cfg.AdminAddr = adminAddr
			}
			if err := config.ValidateNodeConfig(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Server config file (TOML)")
	cmd.Flags().StringVar(&listen, "listen", "", "UDP listen address, overrides the config")
	cmd.Flags().StringVar(&adminAddr, "admin", "", "Admin HTTP address, overrides the config; empty disables it")
	return cmd
}

// setupNodeLogging tags the env-configured logger with the node name and
// applies the config file's log level.
func setupNodeLogging(cfg config.NodeConfig) {
	if cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	observability.InitLogger(cfg.Name)
}

func runServe(ctx context.Context, cfg config.NodeConfig) error {
	setupNodeLogging(cfg)
	observability.RegisterMetrics()

	peers := session.NewServer(protocol.Default(), cfg.Session())
	udp, err := transport.Listen(ctx, cfg.Listen, peers)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- udp.Serve(ctx) }()

	if cfg.AdminAddr != "" {
		running++
		srv := admin.New(cfg.Name, protocol.Default(), peers, cfg.CorsOrigins)
		go func() { errCh <- srv.ListenAndServe(ctx, cfg.AdminAddr) }()
	}

	log.Info().
		Str("udp", udp.Addr().String()).
		Str("admin", cfg.AdminAddr).
		Msg("voxpkt serve started")

	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	if firstErr != nil {
		return fmt.Errorf("serve: %w", firstErr)
	}
	log.Info().Msg("voxpkt serve stopped")
	return nil
}
