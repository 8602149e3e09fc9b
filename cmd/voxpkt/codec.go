package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxboxor/voxboxor/internal/dump"
	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol"
)

func encodeCmd() *cobra.Command {
	var spaced bool

	cmd := &cobra.Command{
		Use:   "encode <origin> <purpose> [name=value...]",
		Short: "Encode a packet and print it as hex",
		Long: `Encode a packet of (origin, purpose) from name=value pairs.

Fields with a default may be omitted. Values accept decimal, 0x hex
or 0o octal.

Examples:
  voxpkt encode client connect
  voxpkt encode server connected peer_id_new=2
  voxpkt encode client disconnect sender_peer_id=0x2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[2:])
			if err != nil {
				return err
			}
			b, err := protocol.Encode(args[0], args[1], values)
			observability.RecordPacket(observability.OpEncode, kindLabel(args[0], args[1]), err)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatHex(b, spaced))
			return nil
		},
	}

	cmd.Flags().BoolVar(&spaced, "spaced", false, "Separate bytes with spaces")
	return cmd
}

func decodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <origin> <purpose> <hex>",
		Short: "Decode a hex packet",
		Long: `Decode a packet of (origin, purpose). The hex may contain spaces or
colons between bytes; pass it as one or more trailing arguments.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := dump.ParseFormat(output)
			if err != nil {
				return err
			}
			b, err := parseHex(strings.Join(args[2:], ""))
			if err != nil {
				return err
			}
			pkt, err := protocol.Decode(args[0], args[1], b)
			observability.RecordPacket(observability.OpDecode, kindLabel(args[0], args[1]), err)
			if err != nil {
				return err
			}
			return dump.Write(cmd.OutOrStdout(), format, dump.Packet(pkt))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, yaml or cbor")
	return cmd
}

func layoutCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [origin purpose]",
		Short: "Print resolved packet layouts",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <origin> <purpose>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := dump.ParseFormat(output)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				t, err := protocol.Resolve(args[0], args[1])
				if err != nil {
					return err
				}
				return dump.Write(cmd.OutOrStdout(), format, dump.Layout(t))
			}
			layouts, err := dump.Layouts(protocol.Default())
			if err != nil {
				return err
			}
			return dump.Write(cmd.OutOrStdout(), format, layouts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, yaml or cbor")
	return cmd
}

func kindLabel(origin, purpose string) string {
	kind, err := protocol.ParseKind(origin, purpose)
	if err != nil {
		return "unknown"
	}
	return kind.String()
}

func parseValues(pairs []string) (protocol.Values, error) {
	values := make(protocol.Values, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid value %q: want name=value", pair)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values[name] = n
	}
	return values, nil
}

func parseHex(raw string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\t", "", "\n", "").Replace(raw)
	clean = strings.TrimPrefix(strings.ToLower(clean), "0x")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

func formatHex(b []byte, spaced bool) string {
	if !spaced {
		return hex.EncodeToString(b)
	}
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = hex.EncodeToString([]byte{c})
	}
	return strings.Join(parts, " ")
}
