// Package config loads udpsocket configuration from defaults, an optional
// YAML file and UDPSOCKET_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/udpsocket/limits"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by ApplyEnvironmentOverrides.
const (
	EnvLogLevel     = "UDPSOCKET_LOG_LEVEL"
	EnvLogFormat    = "UDPSOCKET_LOG_FORMAT"
	EnvMetricsAddr  = "UDPSOCKET_METRICS_ADDR"
	EnvRecvBuffer   = "UDPSOCKET_RECV_BUFFER"
	EnvPollInterval = "UDPSOCKET_POLL_INTERVAL"
)

// Validation bounds for the poll interval.
const (
	MinPollInterval = time.Millisecond
	MaxPollInterval = time.Minute
)

// Config is the complete configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Socket  SocketConfig  `yaml:"socket"`
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Address
// disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// SocketConfig holds receive-side tuning for the CLI.
type SocketConfig struct {
	RecvBuffer   int           `yaml:"recv_buffer"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the default configuration.
//
// Default Value Rationale:
//   - Log.Level: info - operation failures are logged at debug, so info stays quiet
//   - Socket.RecvBuffer: 64KiB - holds any IPv4 or IPv6 datagram
//   - Socket.PollInterval: 10ms - non-blocking receive loops stay responsive without spinning
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Socket: SocketConfig{
			RecvBuffer:   limits.DefaultRecvBuffer,
			PollInterval: 10 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !isValidLogFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if err := limits.ValidateRecvBuffer(c.Socket.RecvBuffer); err != nil {
		errs = append(errs, fmt.Errorf("socket.recv_buffer: %w", err))
	}
	if c.Socket.PollInterval < MinPollInterval || c.Socket.PollInterval > MaxPollInterval {
		errs = append(errs, fmt.Errorf("socket.poll_interval: %s not in [%s, %s]",
			c.Socket.PollInterval, MinPollInterval, MaxPollInterval))
	}

	return errors.Join(errs...)
}

func isValidLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "json":
		return true
	}
	return false
}

// ApplyEnvironmentOverrides updates cfg from UDPSOCKET_* environment
// variables. Unparsable or out-of-range values are logged and ignored.
func ApplyEnvironmentOverrides(cfg *Config) {
	parseLogLevelSetting(cfg)
	parseLogFormatSetting(cfg)
	parseMetricsAddrSetting(cfg)
	parseRecvBufferSetting(cfg)
	parsePollIntervalSetting(cfg)
}

func parseLogLevelSetting(cfg *Config) {
	if levelStr := os.Getenv(EnvLogLevel); levelStr != "" {
		if _, err := logrus.ParseLevel(levelStr); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseLogLevelSetting",
				"env_var":     EnvLogLevel,
				"value":       levelStr,
				"error":       err.Error(),
				"using_value": cfg.Log.Level,
			}).Warn("Failed to parse UDPSOCKET_LOG_LEVEL environment variable, using default")
			return
		}
		cfg.Log.Level = levelStr
	}
}

func parseLogFormatSetting(cfg *Config) {
	if format := os.Getenv(EnvLogFormat); format != "" {
		if !isValidLogFormat(format) {
			logrus.WithFields(logrus.Fields{
				"function":    "parseLogFormatSetting",
				"env_var":     EnvLogFormat,
				"value":       format,
				"using_value": cfg.Log.Format,
			}).Warn("Unknown UDPSOCKET_LOG_FORMAT value, using default")
			return
		}
		cfg.Log.Format = format
	}
}

func parseMetricsAddrSetting(cfg *Config) {
	if addr, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.Metrics.Address = addr
	}
}

// parseRecvBufferSetting validates the value is within
// [limits.MinRecvBuffer, limits.MaxRecvBuffer] before applying it.
func parseRecvBufferSetting(cfg *Config) {
	if sizeStr := os.Getenv(EnvRecvBuffer); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseRecvBufferSetting",
				"env_var":     EnvRecvBuffer,
				"value":       sizeStr,
				"error":       err.Error(),
				"using_value": cfg.Socket.RecvBuffer,
			}).Warn("Failed to parse UDPSOCKET_RECV_BUFFER environment variable, using default")
			return
		}
		if err := limits.ValidateRecvBuffer(size); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseRecvBufferSetting",
				"env_var":     EnvRecvBuffer,
				"value":       size,
				"min":         limits.MinRecvBuffer,
				"max":         limits.MaxRecvBuffer,
				"using_value": cfg.Socket.RecvBuffer,
			}).Warn("UDPSOCKET_RECV_BUFFER value out of bounds, using default")
			return
		}
		cfg.Socket.RecvBuffer = size
	}
}

func parsePollIntervalSetting(cfg *Config) {
	if intervalStr := os.Getenv(EnvPollInterval); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parsePollIntervalSetting",
				"env_var":     EnvPollInterval,
				"value":       intervalStr,
				"error":       err.Error(),
				"using_value": cfg.Socket.PollInterval,
			}).Warn("Failed to parse UDPSOCKET_POLL_INTERVAL environment variable, using default")
			return
		}
		if interval < MinPollInterval || interval > MaxPollInterval {
			logrus.WithFields(logrus.Fields{
				"function":    "parsePollIntervalSetting",
				"env_var":     EnvPollInterval,
				"value":       interval,
				"min":         MinPollInterval,
				"max":         MaxPollInterval,
				"using_value": cfg.Socket.PollInterval,
			}).Warn("UDPSOCKET_POLL_INTERVAL value out of bounds, using default")
			return
		}
		cfg.Socket.PollInterval = interval
	}
}
