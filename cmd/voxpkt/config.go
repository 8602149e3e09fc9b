package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxboxor/voxboxor/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or check config files",
	}
	cmd.AddCommand(configInitCmd(), configValidateCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var (
		kind      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a config template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], kind, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s config to %s\n", kind, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "server", "Template kind: server or client")
	cmd.Flags().BoolVar(&overwrite, "force", false, "Overwrite an existing file")
	return cmd
}

func configValidateCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Load and validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "server":
				cfg, err := config.LoadNodeConfig(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s listens on %s\n", cfg.Name, cfg.Listen)
			case "client":
				cfg, err := loadClientProfile(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: handshake timeout %s, %d attempts\n", cfg.HandshakeTimeout, cfg.MaxConnectAttempts)
			default:
				return fmt.Errorf("unknown config kind: %s", kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "server", "Config kind: server or client")
	return cmd
}
