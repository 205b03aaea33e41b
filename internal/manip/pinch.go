package manip

import "github.com/fonsirada/clothingapp/internal/detector"

// GestureFrame is the per-frame digest of a hand observation. It is
// derived fresh each callback and never retained across frames.
type GestureFrame struct {
	Fingertip    Point
	IsPinching   bool
	HandsPresent int

	// Second hand, populated only when two hands are present. Used by
	// the two-hand scale strategy.
	SecondTip      Point
	SecondPinching bool
}

// IsPinching classifies a hand pose as pinching: thumb tip and index
// fingertip closer than the threshold in normalized landmark space.
func IsPinching(hand *detector.HandLandmarks, threshold float64) bool {
	if hand == nil {
		return false
	}
	d := detector.Distance2D(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	return d < threshold
}

// toPixel converts a normalized landmark to container pixels, applying
// the configured mirroring convention.
func toPixel(lm detector.Point3D, container Point, mirror bool) Point {
	x := lm.X * container.X
	if mirror {
		x = container.X - x
	}
	return Point{X: x, Y: lm.Y * container.Y}
}

// deriveFrame digests a hand observation into a GestureFrame. The first
// hand is the primary manipulator; a second hand only matters for the
// two-hand scale strategy.
func deriveFrame(hands []detector.HandLandmarks, p Params, container Point) GestureFrame {
	f := GestureFrame{HandsPresent: len(hands)}
	if len(hands) == 0 {
		return f
	}

	primary := &hands[0]
	f.Fingertip = toPixel(primary.Points[detector.IndexTip], container, p.Mirror)
	f.IsPinching = IsPinching(primary, p.PinchThreshold)

	if len(hands) > 1 {
		second := &hands[1]
		f.SecondTip = toPixel(second.Points[detector.IndexTip], container, p.Mirror)
		f.SecondPinching = IsPinching(second, p.PinchThreshold)
	}

	return f
}
