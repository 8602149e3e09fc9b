package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxboxor/voxboxor/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voxpkt",
		Short: "Encode, decode and exchange handshake packets",
		Long: `voxpkt works with the low-level connection handshake packets:
c_connect, s_connected and c_disconnect.

It can encode and decode single packets, print their resolved layouts,
run a UDP handshake server, and perform a client handshake against one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}

	rootCmd.AddCommand(
		encodeCmd(),
		decodeCmd(),
		layoutCmd(),
		serveCmd(),
		connectCmd(),
		configCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "voxpkt: %v\n", err)
		os.Exit(1)
	}
}
