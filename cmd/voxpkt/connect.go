package main

import (
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/protocol/session"
	"github.com/voxboxor/voxboxor/internal/transport"
)

func connectCmd() *cobra.Command {
	var (
		profilePath string
		hold        time.Duration
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "connect <addr>",
		Short: "Perform a client handshake against a server",
		Long: `Send c_connect to addr, wait for s_connected (retrying with backoff),
print the assigned peer id, then send c_disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := session.DefaultConfig()
			if profilePath != "" {
				loaded, err := loadClientProfile(profilePath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("timeout") {
				cfg.HandshakeTimeout = timeout
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, err := transport.Dial(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			clt := session.NewClient(protocol.Default())
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			id, err := clt.Connect(ctx, conn, cfg, rng)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "peer_id=%d\n", id)

			if hold > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(hold):
				}
			}
			if err := clt.Disconnect(cmd.Context(), conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "config", "c", "", "Client profile (TOML)")
	cmd.Flags().DurationVar(&hold, "hold", 0, "Stay connected this long before disconnecting")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-attempt handshake timeout, overrides the profile")
	return cmd
}
