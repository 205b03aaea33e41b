package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRYON_CONFIG is set
//  3. env (prefix TRYON_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TRYON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Environment variables: TRYON_ADDR, TRYON_DWELL_TIME_MS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("TRYON_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "tryon_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DwellTimeMS <= 0 {
		return errors.New("dwell_time_ms must be positive")
	}
	if c.PinchThreshold <= 0 {
		return errors.New("pinch_threshold must be positive")
	}
	if c.MinScale <= 0 || c.MaxScale <= c.MinScale {
		return fmt.Errorf("scale bounds invalid: [%f, %f]", c.MinScale, c.MaxScale)
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0, 1], got %f", c.SmoothingAlpha)
	}
	switch c.ScaleStrategy {
	case "drag", "twohand":
	default:
		return fmt.Errorf("unknown scale_strategy %q", c.ScaleStrategy)
	}
	return nil
}
