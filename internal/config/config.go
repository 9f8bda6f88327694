// Package config loads canvastream.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"canvastream/internal/logging"
	"canvastream/internal/sink"
	"canvastream/internal/state"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "canvastream.yml"

// Config is the whole configuration file.
type Config struct {
	Grid      state.GridSpec    `yaml:"grid"`
	Stroke    state.StrokeStyle `yaml:"stroke"`
	Recording RecordingConfig   `yaml:"recording"`
	Sink      SinkConfig        `yaml:"sink"`
	Window    WindowConfig      `yaml:"window"`
	Logging   logging.Config    `yaml:"logging"`
}

type RecordingConfig struct {
	// ToggleKey is the fyne key name that switches recording, e.g. "Space".
	ToggleKey string `yaml:"toggle_key"`
}

// SinkConfig selects where recorded samples go.
type SinkConfig struct {
	// Transport is "console", "file", "tcp" or "ws".
	Transport string `yaml:"transport"`
	// Address is a host:port for tcp, a URL for ws, a directory for file.
	Address string `yaml:"address"`
	// Discover looks the tcp collector up over mDNS when Address is empty.
	Discover  bool        `yaml:"discover"`
	Batch     BatchConfig `yaml:"batch"`
	Policy    string      `yaml:"policy"`
	SpoolDir  string      `yaml:"spool_dir"`
	BackupDir string      `yaml:"backup_dir"`
}

type BatchConfig struct {
	MaxRecords int           `yaml:"max_records"`
	MaxBytes   int           `yaml:"max_bytes"`
	Interval   time.Duration `yaml:"interval"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Transports accepted in sink.transport.
const (
	TransportConsole = "console"
	TransportFile    = "file"
	TransportTCP     = "tcp"
	TransportWS      = "ws"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid:      state.DefaultGridSpec(),
		Stroke:    state.DefaultStrokeStyle(),
		Recording: RecordingConfig{ToggleKey: "Space"},
		Sink: SinkConfig{
			Transport: TransportConsole,
			Batch: BatchConfig{
				MaxRecords: sink.DefaultMaxRecords,
				MaxBytes:   sink.DefaultMaxBytes,
				Interval:   sink.DefaultInterval,
			},
			Policy: string(sink.PolicyDrop),
		},
		Window:  WindowConfig{Width: 1024, Height: 768},
		Logging: logging.Config{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CANVASTREAM_SINK_ADDRESS"); v != "" {
		c.Sink.Address = v
	}
	if v := os.Getenv("CANVASTREAM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Stroke.Validate(); err != nil {
		return err
	}
	if c.Recording.ToggleKey == "" {
		return &state.ConfigError{Field: "recording.toggle_key", Reason: "must not be empty"}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &state.ConfigError{Field: "window", Reason: "width and height must be positive"}
	}
	return c.Sink.Validate()
}

func (s SinkConfig) Validate() error {
	switch s.Transport {
	case TransportConsole:
	case TransportFile, TransportWS:
		if s.Address == "" {
			return &state.ConfigError{Field: "sink.address", Reason: fmt.Sprintf("required for %s transport", s.Transport)}
		}
	case TransportTCP:
		if s.Address == "" && !s.Discover {
			return &state.ConfigError{Field: "sink.address", Reason: "required for tcp transport unless discover is set"}
		}
	default:
		return &state.ConfigError{Field: "sink.transport", Reason: fmt.Sprintf("unknown transport %q", s.Transport)}
	}

	policy, err := sink.ParsePolicy(s.Policy)
	if err != nil {
		return err
	}
	if policy == sink.PolicySpool && s.SpoolDir == "" {
		return &state.ConfigError{Field: "sink.spool_dir", Reason: "required for spool policy"}
	}
	if s.Batch.MaxRecords < 0 || s.Batch.MaxBytes < 0 || s.Batch.Interval < 0 {
		return &state.ConfigError{Field: "sink.batch", Reason: "limits must not be negative"}
	}
	return nil
}
