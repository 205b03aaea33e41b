// Package manip implements the gesture-interpretation core: it turns
// noisy per-frame landmark observations into stable tool selections and
// drift-free transform updates for the overlay being manipulated.
package manip

import "time"

// Tool represents the manipulation mode armed by dwell selection.
type Tool string

const (
	// ToolNone means no manipulation occurs while pinching.
	ToolNone Tool = "none"
	// ToolMove drags the overlay to follow the fingertip.
	ToolMove Tool = "move"
	// ToolRotate rotates the overlay by vertical drag.
	ToolRotate Tool = "rotate"
	// ToolScale resizes the overlay by horizontal drag.
	ToolScale Tool = "scale"
)

// Mode selects which kind of landmark frames drive the transform.
type Mode string

const (
	// ModeHand is gesture-driven manipulation from hand landmarks.
	ModeHand Mode = "hand"
	// ModeBody is continuous body-relative calibration from pose landmarks.
	ModeBody Mode = "body"
)

// ScaleStrategy selects how the SCALE tool interprets pinch input.
type ScaleStrategy string

const (
	// StrategyDrag scales by horizontal drag of a single pinching hand.
	StrategyDrag ScaleStrategy = "drag"
	// StrategyTwoHand scales by the distance ratio between two pinching hands.
	StrategyTwoHand ScaleStrategy = "twohand"
)

// Point is a position in container pixels, relative to the top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a button hitbox in container pixels, supplied each frame by
// the rendering layer since it owns the layout.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether the point falls within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Transform is the shared mutable record consumed by the rendering
// layer. Scale is clamped to [MinScale, MaxScale] at every write;
// rotation is unbounded and position is clipped visually by the caller.
type Transform struct {
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`
}

// BodyMeasurement is derived fresh from each pose frame, in container
// pixels. Exposed for debug overlays in body mode.
type BodyMeasurement struct {
	ShoulderWidth float64 `json:"shoulder_width"`
	ChestCenter   Point   `json:"chest_center"`
	ShoulderAngle float64 `json:"shoulder_angle"` // degrees
	TorsoHeight   float64 `json:"torso_height"`
}

// Params holds the effect-bearing tuning constants. All are live: the
// settings API pushes updated values into a running controller.
type Params struct {
	// DwellTime is how long the fingertip must hover a button before the
	// selection toggles.
	DwellTime time.Duration

	// PinchThreshold is the maximum normalized thumb-index distance that
	// counts as a pinch. Calibrated against landmark space, not pixels.
	PinchThreshold float64

	// RotationSpeed is degrees of rotation per pixel of vertical drag.
	RotationSpeed float64

	// ScaleSpeed is scale units per pixel of horizontal drag.
	ScaleSpeed float64

	// MinScale and MaxScale are the hard clamp bounds on Transform.Scale.
	MinScale float64
	MaxScale float64

	// SmoothingAlpha is the EMA coefficient for body-mode scale smoothing.
	SmoothingAlpha float64

	// VerticalOffset shifts the overlay below the chest center in body
	// mode, in pixels.
	VerticalOffset float64

	// Mirror flips X during normalized-to-pixel conversion, matching a
	// mirrored (selfie) capture convention.
	Mirror bool

	// ScaleStrategy selects single-hand drag or two-hand distance scaling.
	ScaleStrategy ScaleStrategy
}

// DefaultParams returns the tuning values used when no configuration
// overrides are present.
func DefaultParams() Params {
	return Params{
		DwellTime:      500 * time.Millisecond,
		PinchThreshold: 0.05,
		RotationSpeed:  0.5,
		ScaleSpeed:     0.005,
		MinScale:       0.2,
		MaxScale:       3.0,
		SmoothingAlpha: 0.2,
		VerticalOffset: 40,
		Mirror:         true,
		ScaleStrategy:  StrategyDrag,
	}
}

// clampScale enforces the Transform scale invariant.
func clampScale(s float64, p Params) float64 {
	if s < p.MinScale {
		return p.MinScale
	}
	if s > p.MaxScale {
		return p.MaxScale
	}
	return s
}
