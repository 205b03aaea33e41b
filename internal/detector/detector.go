package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrUnavailable is returned when no landmark backend can be started.
// The manipulation pipeline cannot run without one, so callers should
// treat this as terminal and decide whether to retry with a restart.
var ErrUnavailable = errors.New("landmark detector unavailable")

// Observation is the per-frame output of a detector: zero or more hands
// and, when pose tracking is enabled, at most one body.
type Observation struct {
	Hands []HandLandmarks `json:"hands"`
	Pose  *PoseLandmarks  `json:"pose,omitempty"`
}

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected landmarks.
	// A frame with no hands and no body yields an empty Observation,
	// not an error.
	Detect(frame *gocv.Mat) (*Observation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// WithPose enables body pose landmarks in addition to hands.
	// Required for the body-fit calibration mode.
	WithPose bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		WithPose:        true,
	}
}
