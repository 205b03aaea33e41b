package manip

import "math"

// minSpan is the smallest usable fingertip separation, in pixels, for
// the two-hand scale strategy. Below this the geometry is degenerate
// and the frame is skipped.
const minSpan = 1.0

// latch holds the gesture-start baseline captured once per continuous
// pinch. It is armed on the first pinching frame of a ROTATE or SCALE
// gesture and cleared the instant the pinch releases, so every gesture
// computes deltas from its own fresh anchor instead of accumulating
// drift from a stale one.
type latch struct {
	armed        bool
	anchorX      float64
	anchorY      float64
	rotationBase float64
	scaleBase    float64
	spanBase     float64
}

// mapper converts pinch-held motion into transform updates for the
// currently active tool.
type mapper struct {
	latch latch
}

// Release clears the latch. Must be called on the frame pinching ends
// and on any no-hand frame.
func (m *mapper) Release() {
	m.latch = latch{}
}

// Apply mutates the transform for one pinching frame. Tool switches
// inside a held pinch cannot occur: the selector only runs while not
// pinching, so the latch never crosses tools.
func (m *mapper) Apply(t *Transform, tool Tool, f GestureFrame, p Params) {
	switch tool {
	case ToolMove:
		// Absolute 1:1 tracking, no latch.
		t.Position = f.Fingertip

	case ToolRotate:
		if !m.latch.armed {
			m.latch.armed = true
			m.latch.anchorY = f.Fingertip.Y
			m.latch.rotationBase = t.Rotation
			return
		}
		t.Rotation = m.latch.rotationBase + (f.Fingertip.Y-m.latch.anchorY)*p.RotationSpeed

	case ToolScale:
		if p.ScaleStrategy == StrategyTwoHand {
			m.applyTwoHandScale(t, f, p)
			return
		}
		if !m.latch.armed {
			m.latch.armed = true
			m.latch.anchorX = f.Fingertip.X
			m.latch.scaleBase = t.Scale
			return
		}
		t.Scale = clampScale(m.latch.scaleBase+(f.Fingertip.X-m.latch.anchorX)*p.ScaleSpeed, p)
	}
}

// applyTwoHandScale scales by the ratio of the current fingertip span
// to the span latched when both hands first pinched.
func (m *mapper) applyTwoHandScale(t *Transform, f GestureFrame, p Params) {
	if f.HandsPresent < 2 || !f.SecondPinching {
		// Second hand lost or released: drop the baseline so the
		// gesture re-latches when it returns.
		m.Release()
		return
	}

	dx := f.SecondTip.X - f.Fingertip.X
	dy := f.SecondTip.Y - f.Fingertip.Y
	span := math.Sqrt(dx*dx + dy*dy)
	if span < minSpan {
		// Coincident fingertips: no meaningful gesture this frame.
		return
	}

	if !m.latch.armed {
		m.latch.armed = true
		m.latch.spanBase = span
		m.latch.scaleBase = t.Scale
		return
	}
	t.Scale = clampScale(m.latch.scaleBase*(span/m.latch.spanBase), p)
}
