// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/template-render/internal/dpi"
	"github.com/ironsheep/template-render/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel      = "TEMPLATE_RENDER_LOG_LEVEL"
	EnvMaxConcurrent = "TEMPLATE_RENDER_MAX_CONCURRENT"
	EnvDPI           = "TEMPLATE_RENDER_DPI"
	EnvFormat        = "TEMPLATE_RENDER_FORMAT"
	EnvThreshold     = "TEMPLATE_RENDER_THRESHOLD"
	EnvMaxPixels     = "TEMPLATE_RENDER_MAX_PIXELS"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	LogLevel logrus.Level

	// MaxConcurrent bounds simultaneous renders. Zero means GOMAXPROCS.
	MaxConcurrent int

	// MaxPixels bounds the size of one output image. Zero means the
	// renderer's default.
	MaxPixels int64

	// DPI is used when a request does not name a resolution.
	DPI float64

	// Format is the output format name: png, bmp or tiff.
	Format string

	// Threshold, when non-zero, converts output to black and white at this
	// luminance level.
	Threshold uint8
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		LogLevel: logrus.InfoLevel,
		DPI:      dpi.ScreenDefault,
		Format:   "png",
	}
}

// FromEnv reads the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads configuration through getenv. Unset or empty variables keep
// their defaults; malformed ones are an error.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v := strings.TrimSpace(getenv(EnvMaxConcurrent)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s: want a non-negative integer, got %q", EnvMaxConcurrent, v)
		}
		cfg.MaxConcurrent = n
	}

	if v := strings.TrimSpace(getenv(EnvMaxPixels)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s: want a non-negative integer, got %q", EnvMaxPixels, v)
		}
		cfg.MaxPixels = n
	}

	if v := strings.TrimSpace(getenv(EnvDPI)); v != "" {
		d, err := ParseDPI(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDPI, err)
		}
		cfg.DPI = d
	}

	if v := strings.TrimSpace(getenv(EnvFormat)); v != "" {
		if _, err := imaging.NewFormatEncoder(v); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvFormat, err)
		}
		cfg.Format = strings.TrimPrefix(strings.ToLower(v), ".")
	}

	if v := strings.TrimSpace(getenv(EnvThreshold)); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return cfg, fmt.Errorf("%s: want 0-255, got %q", EnvThreshold, v)
		}
		cfg.Threshold = uint8(n)
	}

	return cfg, nil
}

// ParseDPI accepts a positive number or a preset name such as "thermal".
func ParseDPI(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if d, ok := dpi.Lookup(strings.ToLower(s)); ok {
		return d, nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return 0, fmt.Errorf("invalid dpi %q: want a positive number or a preset name", s)
	}
	return d, nil
}

// Encoder builds the output encoder the configuration describes.
func (c Config) Encoder() (imaging.Encoder, error) {
	enc, err := imaging.NewFormatEncoder(c.Format)
	if err != nil {
		return nil, err
	}
	if c.Threshold > 0 {
		return imaging.ThresholdEncoder{Level: c.Threshold, Next: enc}, nil
	}
	return enc, nil
}

// NewLogger returns a logger writing to stderr at the configured level.
// Stdout is reserved for protocol traffic.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(c.LogLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
