package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danmuck/rasterctl/internal/observability"
	"github.com/danmuck/rasterctl/internal/protocol"
	"github.com/danmuck/rasterctl/internal/script"
	"github.com/danmuck/rasterctl/internal/sender"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	addr      string
	transport string
	interval  time.Duration
	timeout   time.Duration
	retries   int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "displayctl",
		Short:         "Send raster display commands to a displayd receiver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			observability.InitLogger("displayctl")
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.addr, "addr", "127.0.0.1:7777", "receiver address (udp host:port, or admin host:port / ws:// URL for ws)")
	flags.StringVar(&opts.transport, "transport", sender.TransportUDP, "transport: udp or ws")
	flags.DurationVar(&opts.interval, "interval", 0, "pause between commands")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "dial timeout, retries included")
	flags.IntVar(&opts.retries, "retries", 0, "extra dial attempts with backoff")

	root.AddCommand(
		newDemoCmd(opts),
		newPlayCmd(opts),
		newRawCmd(opts),
		newDecodeCmd(),
	)
	return root
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Send one command of every opcode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sendCommands(cmd.Context(), opts, script.Demo())
		},
	}
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play <script.toml|script.yaml>",
		Short: "Send the commands listed in a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := script.Load(args[0])
			if err != nil {
				return err
			}
			return sendCommands(cmd.Context(), opts, cmds)
		},
	}
}

func newRawCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <hex>",
		Short: "Send bytes exactly as given, without validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := parseHex(args[0])
			if err != nil {
				return err
			}
			client, err := dial(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer client.Close()
			n, err := client.SendRaw(buf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d bytes to %s\n", n, client.Target())
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a command buffer locally and describe it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeTo(cmd.OutOrStdout(), args[0])
		},
	}
}

func decodeTo(w io.Writer, raw string) error {
	buf, err := parseHex(raw)
	if err != nil {
		return err
	}
	decoded, err := protocol.Decode(buf)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", decoded.Opcode(), decoded)
	return err
}

// parseHex accepts "01f800", "01 f8 00", "0x01,0xF8,0x00" and similar.
func parseHex(raw string) ([]byte, error) {
	cleaned := strings.NewReplacer("0x", "", "0X", "", ",", "", " ", "", ":", "").Replace(raw)
	buf, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("parse hex %q: %w", raw, err)
	}
	return buf, nil
}

func dial(ctx context.Context, opts *rootOptions) (*sender.Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dialCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	policy := sender.DefaultRetryPolicy()
	policy.Attempts = 1 + max(opts.retries, 0)
	return sender.DialRetry(dialCtx, opts.transport, opts.addr, policy)
}

func sendCommands(ctx context.Context, opts *rootOptions, cmds []protocol.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := dial(ctx, opts)
	if err != nil {
		return err
	}
	defer client.Close()
	_, err = client.SendAll(ctx, cmds, opts.interval)
	return err
}
