package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/opd-ai/udpsocket"
	"github.com/opd-ai/udpsocket/limits"
	"github.com/opd-ai/udpsocket/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// sendOptions are the flags of the send command.
type sendOptions struct {
	bind  string
	to    string
	count int
	rate  float64
	size  string
}

func sendCmd(global *globalOptions) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send [PAYLOAD]",
		Short: "Send datagrams to a peer",
		Long: `Bind a socket, connect it to --to and send PAYLOAD (or --size filler
bytes) --count times, optionally paced to --rate datagrams per second.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.stop()

			payload, err := opts.payload(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSend(ctx, cmd.OutOrStdout(), opts, payload, env.metrics)
		},
	}

	cmd.Flags().StringVarP(&opts.bind, "bind", "b", "", "Local address (default: wildcard of the destination's family)")
	cmd.Flags().StringVarP(&opts.to, "to", "t", "", "Destination ip:port")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of datagrams to send")
	cmd.Flags().Float64VarP(&opts.rate, "rate", "r", 0, "Datagrams per second (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.size, "size", "s", "", "Send filler payload of this size (e.g. 512, 1KiB)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// payload picks the datagram body from the argument or --size.
func (o *sendOptions) payload(args []string) ([]byte, error) {
	switch {
	case len(args) == 1 && o.size != "":
		return nil, fmt.Errorf("PAYLOAD and --size are mutually exclusive")
	case len(args) == 1:
		return []byte(args[0]), nil
	case o.size != "":
		size, err := humanize.ParseBytes(o.size)
		if err != nil {
			return nil, fmt.Errorf("invalid --size: %w", err)
		}
		if size > limits.MaxIPv6Datagram {
			return nil, fmt.Errorf("%w: %s", limits.ErrDatagramTooLarge, humanize.IBytes(size))
		}
		return bytes.Repeat([]byte{'x'}, int(size)), nil
	default:
		return []byte{}, nil
	}
}

// bindAddr returns the --bind address or the wildcard address of the
// destination's family.
func (o *sendOptions) bindAddr(family limits.Family) string {
	if o.bind != "" {
		return o.bind
	}
	if family == limits.IPv6 {
		return "[::]:0"
	}
	return "0.0.0.0:0"
}

func runSend(ctx context.Context, out io.Writer, opts *sendOptions, payload []byte, m *metrics.Metrics) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if opts.rate < 0 {
		return fmt.Errorf("--rate must not be negative")
	}

	dst, err := udpsocket.ParseAddr(opts.to)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	family := limits.IPv4
	if !dst.Addr().Is4() {
		family = limits.IPv6
	}
	if err := limits.ValidateDatagram(payload, family); err != nil {
		return err
	}

	sock, err := udpsocket.Bind(opts.bindAddr(family), udpsocket.WithMetrics(m))
	if err != nil {
		return err
	}
	defer sock.Close()

	if err := sock.Connect(opts.to); err != nil {
		return err
	}

	var limiter *rate.Limiter
	if opts.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.rate), 1)
	}

	var sent, total uint64
	for i := 0; i < opts.count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}

		n, err := sock.Send(payload)
		if err != nil {
			return err
		}
		sent++
		total += uint64(n)
	}

	fmt.Fprintf(out, "sent %d datagrams (%s) from %s to %s\n",
		sent, humanize.IBytes(total), sock.LocalAddr(), dst)
	return nil
}
