// Package config defines application configuration and its loading
// rules. Every effect-bearing constant of the manipulation core is a
// field here so it can be tuned without rebuilding.
package config

import (
	"time"

	"github.com/fonsirada/clothingapp/internal/manip"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database location. Empty means the default
	// under the user's home directory.
	DBPath string `koanf:"db_path"`

	// StaticDir serves the rendering layer's static files when set.
	StaticDir string `koanf:"static_dir"`

	// CameraID selects the capture device.
	CameraID int `koanf:"camera_id"`

	// MotionThreshold is the percent of changed pixels that wakes the
	// pipeline from idle.
	MotionThreshold float64 `koanf:"motion_threshold"`

	// DwellTimeMS is the hover duration before a tool toggles.
	DwellTimeMS int `koanf:"dwell_time_ms"`

	// PinchThreshold is the normalized thumb-index distance that counts
	// as a pinch.
	PinchThreshold float64 `koanf:"pinch_threshold"`

	// RotationSpeed is degrees per pixel of vertical drag.
	RotationSpeed float64 `koanf:"rotation_speed"`

	// ScaleSpeed is scale units per pixel of horizontal drag.
	ScaleSpeed float64 `koanf:"scale_speed"`

	// MinScale and MaxScale bound the overlay scale.
	MinScale float64 `koanf:"min_scale"`
	MaxScale float64 `koanf:"max_scale"`

	// SmoothingAlpha is the body-mode scale EMA coefficient.
	SmoothingAlpha float64 `koanf:"smoothing_alpha"`

	// VerticalOffset shifts the overlay below the chest center, in pixels.
	VerticalOffset float64 `koanf:"vertical_offset"`

	// Mirror flips X for selfie-style capture.
	Mirror bool `koanf:"mirror"`

	// ScaleStrategy is "drag" or "twohand".
	ScaleStrategy string `koanf:"scale_strategy"`
}

// New returns a Config populated with defaults.
func New() *Config {
	p := manip.DefaultParams()
	return &Config{
		Addr:            ":8080",
		CameraID:        0,
		MotionThreshold: 1.0,
		DwellTimeMS:     int(p.DwellTime / time.Millisecond),
		PinchThreshold:  p.PinchThreshold,
		RotationSpeed:   p.RotationSpeed,
		ScaleSpeed:      p.ScaleSpeed,
		MinScale:        p.MinScale,
		MaxScale:        p.MaxScale,
		SmoothingAlpha:  p.SmoothingAlpha,
		VerticalOffset:  p.VerticalOffset,
		Mirror:          p.Mirror,
		ScaleStrategy:   string(p.ScaleStrategy),
	}
}

// ManipParams converts the configuration into core tuning parameters.
func (c *Config) ManipParams() manip.Params {
	return manip.Params{
		DwellTime:      time.Duration(c.DwellTimeMS) * time.Millisecond,
		PinchThreshold: c.PinchThreshold,
		RotationSpeed:  c.RotationSpeed,
		ScaleSpeed:     c.ScaleSpeed,
		MinScale:       c.MinScale,
		MaxScale:       c.MaxScale,
		SmoothingAlpha: c.SmoothingAlpha,
		VerticalOffset: c.VerticalOffset,
		Mirror:         c.Mirror,
		ScaleStrategy:  manip.ScaleStrategy(c.ScaleStrategy),
	}
}
