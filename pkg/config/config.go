// Package config loads the chrono command configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/chronocore/pkg/zone"
)

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "info"

// DefaultLogFormat is the log handler used when none is configured.
const DefaultLogFormat = "text"

// DefaultPolicy is the gap and overlap resolution policy used when none is
// configured.
const DefaultPolicy = "earlier"

// Config holds the chrono command configuration.
type Config struct {
	// DataDirs are directories of YAML zone files, each registered as its
	// own provider.
	DataDirs []string `yaml:"data_dirs"`

	// IncludeEmbedded registers the zone data compiled into the binary.
	IncludeEmbedded bool `yaml:"include_embedded"`

	// IncludeEtc registers the fixed Etc/GMT zones.
	IncludeEtc bool `yaml:"include_etc"`

	// Policy names the resolution policy: strict, earlier or later.
	Policy string `yaml:"policy"`

	// Metrics prints the registry metrics to stderr after each command.
	Metrics bool `yaml:"metrics"`

	Log LogConfig `yaml:"log"`
}

// LogConfig selects the structured log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		IncludeEmbedded: true,
		IncludeEtc:      true,
		Policy:          DefaultPolicy,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads path over the defaults and validates the result. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	var errs []error
	for i, dir := range c.DataDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("data_dirs[%d] is empty", i))
		}
	}
	if _, err := zone.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// NewLogger builds the configured slog handler writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Log.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", name)
	}
	return level, nil
}
