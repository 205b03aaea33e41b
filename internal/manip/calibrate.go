package manip

import (
	"math"

	"github.com/fonsirada/clothingapp/internal/detector"
)

// Body-relative calibration constants.
const (
	// minShoulderWidth is the smallest usable shoulder span in pixels.
	// Narrower than this the pose is degenerate (sideways subject or
	// detector glitch) and the frame is skipped.
	minShoulderWidth = 1.0

	// scaleFactorMin and scaleFactorMax bound the ratio of the current
	// shoulder width to the calibration baseline, so a brief tracking
	// glitch cannot produce a runaway garment size.
	scaleFactorMin = 0.5
	scaleFactorMax = 3.0
)

// MeasureBody derives a BodyMeasurement from pose landmarks, converted
// to container pixels. Returns false when the geometry is degenerate.
func MeasureBody(pose *detector.PoseLandmarks, container Point, mirror bool) (BodyMeasurement, bool) {
	if pose == nil {
		return BodyMeasurement{}, false
	}

	left := toPixel(pose.Points[detector.LeftShoulder], container, mirror)
	right := toPixel(pose.Points[detector.RightShoulder], container, mirror)

	dx := right.X - left.X
	dy := right.Y - left.Y
	width := math.Sqrt(dx*dx + dy*dy)
	if width < minShoulderWidth {
		return BodyMeasurement{}, false
	}

	chest := Point{X: (left.X + right.X) / 2, Y: (left.Y + right.Y) / 2}

	leftHip := toPixel(pose.Points[detector.LeftHip], container, mirror)
	rightHip := toPixel(pose.Points[detector.RightHip], container, mirror)
	hipMid := Point{X: (leftHip.X + rightHip.X) / 2, Y: (leftHip.Y + rightHip.Y) / 2}

	tdx := hipMid.X - chest.X
	tdy := hipMid.Y - chest.Y

	return BodyMeasurement{
		ShoulderWidth: width,
		ChestCenter:   chest,
		ShoulderAngle: math.Atan2(dy, dx) * 180 / math.Pi,
		TorsoHeight:   math.Sqrt(tdx*tdx + tdy*tdy),
	}, true
}

// calibrator continuously re-derives scale, rotation, and position from
// live body measurements. The baseline is captured lazily on the first
// valid measurement after entering body mode and discarded on exit, so
// re-entry recalibrates against the then-current body width.
type calibrator struct {
	baselineSet    bool
	shoulderWidth0 float64
	scale0         float64
	smoothed       float64
}

// Reset discards the calibration baseline.
func (c *calibrator) Reset() {
	*c = calibrator{}
}

// Apply mutates the transform for one valid body measurement. The first
// valid frame only captures the baseline; fitting starts on the next.
// Scale is smoothed with an EMA because per-frame shoulder width
// estimates jitter visibly when assigned directly.
func (c *calibrator) Apply(t *Transform, m BodyMeasurement, p Params) {
	if !c.baselineSet {
		c.baselineSet = true
		c.shoulderWidth0 = m.ShoulderWidth
		c.scale0 = t.Scale
		c.smoothed = t.Scale
		return
	}

	factor := m.ShoulderWidth / c.shoulderWidth0
	if factor < scaleFactorMin {
		factor = scaleFactorMin
	} else if factor > scaleFactorMax {
		factor = scaleFactorMax
	}

	target := c.scale0 * factor
	c.smoothed += (target - c.smoothed) * p.SmoothingAlpha

	t.Position = Point{X: m.ChestCenter.X, Y: m.ChestCenter.Y + p.VerticalOffset}
	t.Rotation = m.ShoulderAngle
	t.Scale = clampScale(c.smoothed, p)
}
