// Package main provides the udpsocket command line tool for sending,
// receiving and checking UDP datagrams through the udpsocket library.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/opd-ai/udpsocket/config"
	"github.com/opd-ai/udpsocket/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "udpsocket",
		Short: "udpsocket - send and receive raw UDP datagrams",
		Long: `udpsocket drives the udpsocket library from the command line.

It binds a UDP socket, optionally connects it to a peer, and sends or
receives datagrams in blocking or non-blocking mode. The selftest command
checks a loopback round trip and the non-blocking would-block path.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	rootCmd.AddCommand(sendCmd(opts))
	rootCmd.AddCommand(recvCmd(opts))
	rootCmd.AddCommand(selftestCmd(opts))

	return rootCmd
}

// environment is what a subcommand runs with once flags and configuration
// have been resolved.
type environment struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	stop    func()
}

// setup resolves configuration in order defaults, file, environment, flags,
// configures logging and starts the metrics endpoint when one is set.
func (o *globalOptions) setup() (*environment, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	config.ApplyEnvironmentOverrides(cfg)

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Address = o.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}

	env := &environment{
		cfg:     cfg,
		metrics: metrics.Default(),
		stop:    func() {},
	}

	if cfg.Metrics.Address != "" {
		_, stop, err := startMetricsServer(cfg.Metrics.Address)
		if err != nil {
			return nil, err
		}
		env.stop = stop
	}

	return env, nil
}

// startMetricsServer serves /metrics from the default Prometheus registry
// and returns the address it listens on.
func startMetricsServer(addr string) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithFields(logrus.Fields{
				"function": "startMetricsServer",
				"address":  addr,
				"error":    err.Error(),
			}).Error("Metrics server stopped")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"function": "startMetricsServer",
		"address":  ln.Addr().String(),
	}).Info("Serving metrics")

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
