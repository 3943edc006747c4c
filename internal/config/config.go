package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/benchviz/pkg/chart"
	"github.com/dkoosis/benchviz/pkg/report"
	"github.com/dkoosis/benchviz/pkg/severity"
)

// FileName is the config file looked up locally and under the user config dir.
const FileName = ".benchviz.yaml"

var (
	// ErrInvalidHeight is returned for a chart height below 1.
	ErrInvalidHeight = errors.New("height must be positive")
	// ErrInvalidTop is returned for a negative table size.
	ErrInvalidTop = errors.New("top must not be negative")
)

// Config is the resolved benchviz configuration.
type Config struct {
	Thresholds severity.Thresholds `yaml:"thresholds"`
	Height     int                 `yaml:"height"`
	Top        int                 `yaml:"top"`
	OutputDir  string              `yaml:"output_dir"`
	Theme      string              `yaml:"theme"`
	NoColor    bool                `yaml:"no_color"`
	Debug      bool                `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Thresholds: severity.DefaultThresholds(),
		Height:     chart.DefaultHeight,
		Top:        report.DefaultTop,
		Theme:      severity.DecoratorANSI,
	}
}

// Load returns the defaults overlaid with the discovered config file, if any,
// and the path that was read ("" when none was found).
func Load() (Config, string, error) {
	path := getConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile returns the defaults overlaid with the YAML file at path. Keys
// absent from the file keep their default.
// An empty file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// A thresholds block replaces the default tiers as a whole.
	var raw struct {
		Thresholds *severity.Thresholds `yaml:"thresholds"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if raw.Thresholds != nil {
		cfg.Thresholds = *raw.Thresholds
	}
	return cfg, nil
}

// getConfigPath checks the working directory first, then
// <UserConfigDir>/benchviz.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "benchviz", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// ParseThresholds parses "ok,warn,critical" or "warn,critical" in
// milliseconds.
func ParseThresholds(s string) (severity.Thresholds, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return severity.Thresholds{}, fmt.Errorf("threshold %q: %w", p, err)
		}
		values = append(values, v)
	}

	var t severity.Thresholds
	switch len(values) {
	case 3:
		if values[0] <= 0 {
			return t, fmt.Errorf("%w: ok %g must be positive, give warn,critical for two tiers", severity.ErrInvalidThresholds, values[0])
		}
		t = severity.Thresholds{OK: values[0], Warn: values[1], Critical: values[2]}
	case 2:
		t = severity.Thresholds{Warn: values[0], Critical: values[1]}
	default:
		return t, fmt.Errorf("%w: want 2 or 3 values, got %d", severity.ErrInvalidThresholds, len(values))
	}
	return t, t.Validate()
}

// Validate checks every setting.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if c.Height < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidHeight, c.Height)
	}
	if c.Top < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTop, c.Top)
	}
	return nil
}

// Decorator returns the line decorator for the configured theme.
func (c Config) Decorator() severity.Decorator {
	if c.NoColor {
		return severity.Plain{}
	}
	return severity.ByName(c.Theme)
}

// Heading returns the style applied to report section titles.
func (c Config) Heading() func(string) string {
	switch {
	case c.NoColor, c.Theme == severity.DecoratorPlain:
		return func(s string) string { return s }
	case c.Theme == severity.DecoratorANSI || c.Theme == "":
		return func(s string) string { return "\x1B[1m" + s + severity.SGRReset }
	default:
		style := severity.ThemeByName(c.Theme).Heading
		return func(s string) string { return style.Render(s) }
	}
}

// ReportOptions maps the config onto report.Options.
func (c Config) ReportOptions() report.Options {
	top := c.Top
	if top == 0 {
		top = -1
	}
	return report.Options{
		Thresholds: c.Thresholds,
		Height:     c.Height,
		Top:        top,
		Decorator:  c.Decorator(),
		Heading:    c.Heading(),
	}
}
