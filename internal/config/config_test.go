package config

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/template-render/internal/imaging"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envMap(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		EnvLogLevel:      "debug",
		EnvMaxConcurrent: "3",
		EnvDPI:           "thermal",
		EnvFormat:        "BMP",
		EnvThreshold:     "128",
		EnvMaxPixels:     "1000000",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Config{LogLevel: logrus.DebugLevel, MaxConcurrent: 3, MaxPixels: 1000000, DPI: 203, Format: "bmp", Threshold: 128}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad level", EnvLogLevel, "loud"},
		{"negative concurrency", EnvMaxConcurrent, "-1"},
		{"non-numeric concurrency", EnvMaxConcurrent, "many"},
		{"zero dpi", EnvDPI, "0"},
		{"unknown dpi preset", EnvDPI, "retina"},
		{"lossy format", EnvFormat, "jpeg"},
		{"threshold out of range", EnvThreshold, "256"},
		{"negative max pixels", EnvMaxPixels, "-5"},
		{"non-numeric max pixels", EnvMaxPixels, "lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(envMap(map[string]string{tt.key: tt.val})); err == nil {
				t.Errorf("%s=%q: expected error", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_FormatNormalized(t *testing.T) {
	for _, v := range []string{"bmp", "BMP", ".bmp", " .Bmp "} {
		t.Run(v, func(t *testing.T) {
			cfg, err := Load(envMap(map[string]string{EnvFormat: v}))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Format != "bmp" {
				t.Errorf("Format: got %q, want %q", cfg.Format, "bmp")
			}
		})
	}
}

func TestParseDPI(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"96", 96},
		{" 203 ", 203},
		{"Thermal", 203},
		{"print", 300},
		{"150.5", 150.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDPI(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseDPI(%q): got %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestConfig_Encoder(t *testing.T) {
	cfg := Default()
	enc, err := cfg.Encoder()
	if err != nil {
		t.Fatalf("Encoder failed: %v", err)
	}
	if _, ok := enc.(imaging.FormatEncoder); !ok {
		t.Errorf("default encoder: got %T, want FormatEncoder", enc)
	}

	cfg.Threshold = 100
	enc, err = cfg.Encoder()
	if err != nil {
		t.Fatalf("Encoder failed: %v", err)
	}
	th, ok := enc.(imaging.ThresholdEncoder)
	if !ok {
		t.Fatalf("threshold encoder: got %T", enc)
	}
	if th.Level != 100 {
		t.Errorf("Level: got %d, want 100", th.Level)
	}
}
