package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/opd-ai/udpsocket"
	"github.com/opd-ai/udpsocket/metrics"
	"github.com/spf13/cobra"
)

// recvOptions are the flags of the recv command.
type recvOptions struct {
	bind        string
	from        string
	count       int
	nonblocking bool

	bufferSize   int
	pollInterval time.Duration
}

func recvCmd(global *globalOptions) *cobra.Command {
	opts := &recvOptions{}

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Receive datagrams",
		Long: `Bind a socket on --bind and print each datagram received. With --from
the socket is connected and only accepts datagrams from that peer.

In --nonblocking mode an empty socket is polled every socket.poll_interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.stop()

			opts.bufferSize = env.cfg.Socket.RecvBuffer
			opts.pollInterval = env.cfg.Socket.PollInterval

			ctx := cmd.Context()
			if opts.nonblocking {
				// Blocking reads are ended by the default signal disposition.
				var stop context.CancelFunc
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
			}

			return runRecv(ctx, cmd.OutOrStdout(), opts, env.metrics)
		},
	}

	cmd.Flags().StringVarP(&opts.bind, "bind", "b", "", "Local ip:port to receive on")
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "Only accept datagrams from this ip:port")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "Stop after this many datagrams (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.nonblocking, "nonblocking", false, "Use non-blocking mode and poll")
	_ = cmd.MarkFlagRequired("bind")

	return cmd
}

func runRecv(ctx context.Context, out io.Writer, opts *recvOptions, m *metrics.Metrics) error {
	if opts.count < 0 {
		return fmt.Errorf("--count must not be negative")
	}

	sock, err := udpsocket.Bind(opts.bind, udpsocket.WithMetrics(m))
	if err != nil {
		return err
	}
	defer sock.Close()

	if opts.from != "" {
		if err := sock.Connect(opts.from); err != nil {
			return err
		}
	}
	if err := sock.SetNonBlocking(opts.nonblocking); err != nil {
		return err
	}

	fmt.Fprintf(out, "listening on %s\n", sock.LocalAddr())

	buf := make([]byte, opts.bufferSize)
	var received, total uint64
	for opts.count == 0 || received < uint64(opts.count) {
		n, err := sock.Recv(buf)
		if err != nil {
			return err
		}

		if opts.nonblocking && n == 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(out, "received %d datagrams (%s)\n", received, humanize.IBytes(total))
				return nil
			case <-time.After(opts.pollInterval):
			}
			continue
		}

		received++
		total += uint64(n)
		fmt.Fprintf(out, "%d bytes: %q\n", n, buf[:n])
	}

	fmt.Fprintf(out, "received %d datagrams (%s)\n", received, humanize.IBytes(total))
	return nil
}
