package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/opd-ai/udpsocket"
	"github.com/opd-ai/udpsocket/metrics"
	"github.com/spf13/cobra"
)

func selftestCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Check loopback round trip and non-blocking receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.stop()

			return runSelftest(cmd.OutOrStdout(), env.metrics)
		},
	}
}

// runSelftest binds two loopback sockets, connects them to each other,
// sends one datagram across and then checks that an empty non-blocking
// socket reports zero bytes.
func runSelftest(out io.Writer, m *metrics.Metrics) error {
	a, err := udpsocket.Bind("127.0.0.1:0", udpsocket.WithMetrics(m))
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := udpsocket.Bind("127.0.0.1:0", udpsocket.WithMetrics(m))
	if err != nil {
		return err
	}
	defer b.Close()

	if err := a.Connect(b.LocalAddr().String()); err != nil {
		return err
	}
	if err := b.Connect(a.LocalAddr().String()); err != nil {
		return err
	}

	payload := []byte("hello")
	start := time.Now()
	if _, err := a.Send(payload); err != nil {
		return err
	}

	buf := make([]byte, 64)
	n, err := b.Recv(buf)
	if err != nil {
		return err
	}
	if !bytes.Equal(buf[:n], payload) {
		return fmt.Errorf("round trip: received %q, want %q", buf[:n], payload)
	}
	fmt.Fprintf(out, "round trip: ok (%s -> %s in %s)\n", a.LocalAddr(), b.LocalAddr(), time.Since(start))

	if err := b.SetNonBlocking(true); err != nil {
		return err
	}
	n, err = b.Recv(buf)
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("would-block: received %d bytes from an empty socket", n)
	}
	fmt.Fprintln(out, "would-block: ok")

	return nil
}
