package manip

import (
	"math"
	"testing"
)

func pinchAt(x, y float64) GestureFrame {
	return GestureFrame{
		Fingertip:    Point{X: x, Y: y},
		IsPinching:   true,
		HandsPresent: 1,
	}
}

func TestMapper_MoveTracksFingertip(t *testing.T) {
	var m mapper
	p := DefaultParams()
	tr := Transform{Position: Point{X: 10, Y: 10}, Scale: 1.0}

	m.Apply(&tr, ToolMove, pinchAt(300, 200), p)
	if tr.Position != (Point{X: 300, Y: 200}) {
		t.Errorf("expected absolute tracking to (300,200), got %+v", tr.Position)
	}

	// No latch for MOVE: every frame follows directly.
	m.Apply(&tr, ToolMove, pinchAt(310, 190), p)
	if tr.Position != (Point{X: 310, Y: 190}) {
		t.Errorf("expected position (310,190), got %+v", tr.Position)
	}
}

func TestMapper_RotateLatchNoJump(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.RotationSpeed = 0.5
	tr := Transform{Rotation: 30, Scale: 1.0}

	// First pinch frame only arms the latch; rotation must not move.
	m.Apply(&tr, ToolRotate, pinchAt(100, 200), p)
	if tr.Rotation != 30 {
		t.Fatalf("first pinch frame changed rotation to %f", tr.Rotation)
	}

	// Second frame: exactly base + dy * speed.
	m.Apply(&tr, ToolRotate, pinchAt(100, 260), p)
	want := 30 + 60*0.5
	if tr.Rotation != want {
		t.Errorf("expected rotation %f, got %f", want, tr.Rotation)
	}

	// Deltas stay relative to the original anchor, not the last frame.
	m.Apply(&tr, ToolRotate, pinchAt(100, 240), p)
	want = 30 + 40*0.5
	if tr.Rotation != want {
		t.Errorf("expected rotation %f, got %f", want, tr.Rotation)
	}
}

func TestMapper_ScaleDrag(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.ScaleSpeed = 0.0001
	tr := Transform{Scale: 1.0}

	// Pinch starts at x=500; the first frame latches.
	m.Apply(&tr, ToolScale, pinchAt(500, 100), p)
	if tr.Scale != 1.0 {
		t.Fatalf("first pinch frame changed scale to %f", tr.Scale)
	}

	// 1000 px of rightward drag at speed 0.0001 adds exactly 0.1.
	m.Apply(&tr, ToolScale, pinchAt(1500, 100), p)
	if math.Abs(tr.Scale-1.1) > 1e-12 {
		t.Errorf("expected scale 1.1, got %f", tr.Scale)
	}
}

func TestMapper_ScaleClampLaw(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.ScaleSpeed = 0.01
	tr := Transform{Scale: 1.0}

	// A wild drag sequence must never leave the clamp bounds.
	xs := []float64{0, 5000, -5000, 10000, 3, -9999, 640}
	m.Apply(&tr, ToolScale, pinchAt(xs[0], 0), p)
	for _, x := range xs[1:] {
		m.Apply(&tr, ToolScale, pinchAt(x, 0), p)
		if tr.Scale < p.MinScale || tr.Scale > p.MaxScale {
			t.Fatalf("scale %f escaped clamp [%f, %f]", tr.Scale, p.MinScale, p.MaxScale)
		}
	}
	if tr.Scale != clampScale(1.0+640*0.01, p) {
		t.Errorf("expected final scale %f, got %f", clampScale(1.0+640*0.01, p), tr.Scale)
	}
}

func TestMapper_ReleaseClearsLatch(t *testing.T) {
	var m mapper
	p := DefaultParams()
	tr := Transform{Rotation: 0, Scale: 1.0}

	m.Apply(&tr, ToolRotate, pinchAt(100, 100), p)
	m.Apply(&tr, ToolRotate, pinchAt(100, 150), p)
	got := tr.Rotation

	// Pinch release, then a new pinch at a different height: the new
	// gesture starts from its own baseline, no jump.
	m.Release()
	m.Apply(&tr, ToolRotate, pinchAt(100, 400), p)
	if tr.Rotation != got {
		t.Errorf("re-latched first frame changed rotation from %f to %f", got, tr.Rotation)
	}

	m.Apply(&tr, ToolRotate, pinchAt(100, 410), p)
	want := got + 10*p.RotationSpeed
	if tr.Rotation != want {
		t.Errorf("expected rotation %f after re-latch, got %f", want, tr.Rotation)
	}
}

func twoHandFrame(x1, y1, x2, y2 float64) GestureFrame {
	return GestureFrame{
		Fingertip:      Point{X: x1, Y: y1},
		IsPinching:     true,
		HandsPresent:   2,
		SecondTip:      Point{X: x2, Y: y2},
		SecondPinching: true,
	}
}

func TestMapper_TwoHandScale(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.ScaleStrategy = StrategyTwoHand
	tr := Transform{Scale: 1.0}

	// Latch at 200 px span.
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 300, 100), p)
	if tr.Scale != 1.0 {
		t.Fatalf("latch frame changed scale to %f", tr.Scale)
	}

	// Spreading to 300 px scales by 1.5.
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 400, 100), p)
	if math.Abs(tr.Scale-1.5) > 1e-12 {
		t.Errorf("expected scale 1.5, got %f", tr.Scale)
	}

	// Narrowing below the baseline shrinks, still clamped.
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 110, 100), p)
	if math.Abs(tr.Scale-clampScale(10.0/200.0, p)) > 1e-12 {
		t.Errorf("expected clamped scale %f, got %f", clampScale(10.0/200.0, p), tr.Scale)
	}
}

func TestMapper_TwoHandScale_SecondHandLost(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.ScaleStrategy = StrategyTwoHand
	tr := Transform{Scale: 1.0}

	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 300, 100), p)

	// Second hand disappears: baseline drops, scale holds.
	m.Apply(&tr, ToolScale, pinchAt(100, 100), p)
	if tr.Scale != 1.0 {
		t.Errorf("expected scale to hold at 1.0, got %f", tr.Scale)
	}

	// When both hands return the gesture re-latches at the new span.
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 500, 100), p)
	if tr.Scale != 1.0 {
		t.Fatalf("re-latch frame changed scale to %f", tr.Scale)
	}
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 300, 100), p)
	if math.Abs(tr.Scale-0.5) > 1e-12 {
		t.Errorf("expected scale 0.5 from new baseline, got %f", tr.Scale)
	}
}

func TestMapper_TwoHandScale_DegenerateSpan(t *testing.T) {
	var m mapper
	p := DefaultParams()
	p.ScaleStrategy = StrategyTwoHand
	tr := Transform{Scale: 1.2}

	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 300, 100), p)

	// Coincident fingertips: skip the frame, keep the previous value.
	m.Apply(&tr, ToolScale, twoHandFrame(100, 100, 100, 100), p)
	if tr.Scale != 1.2 {
		t.Errorf("degenerate frame changed scale to %f", tr.Scale)
	}
}
