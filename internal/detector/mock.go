package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Observations can be set directly or enqueued as a scripted sequence;
// once a queue drains, the last observation keeps repeating, which
// mimics a subject holding still in front of the camera.
type MockDetector struct {
	mu    sync.Mutex
	queue []*Observation
	last  *Observation
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetObservation sets a single observation that Detect returns on every call.
func (m *MockDetector) SetObservation(obs *Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	m.last = obs
}

// Enqueue appends observations to the scripted sequence.
func (m *MockDetector) Enqueue(obs ...*Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, obs...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted observation, or the error if set.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		m.last = m.queue[0]
		m.queue = m.queue[1:]
	}
	if m.last == nil {
		return &Observation{}, nil
	}
	return m.last, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchingHand returns a HandLandmarks preset with the thumb tip and
// index fingertip touching at the given normalized position. The
// remaining fingers are curled toward the palm.
func PinchingHand(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: x - 0.05, Y: y + 0.20, Z: 0.0}

	// Thumb and index meet at the pinch point, 0.01 apart
	lm.Points[ThumbCMC] = Point3D{X: x - 0.02, Y: y + 0.15, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: x - 0.01, Y: y + 0.10, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: x - 0.005, Y: y + 0.05, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: x - 0.005, Y: y, Z: 0.0}

	lm.Points[IndexMCP] = Point3D{X: x + 0.02, Y: y + 0.12, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: x + 0.015, Y: y + 0.08, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: x + 0.01, Y: y + 0.04, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: x + 0.005, Y: y, Z: 0.0}

	// Remaining fingers curled
	curl := func(mcp, pip, dip, tip int, offset float64) {
		lm.Points[mcp] = Point3D{X: x - offset, Y: y + 0.12, Z: -0.02}
		lm.Points[pip] = Point3D{X: x - offset, Y: y + 0.10, Z: -0.05}
		lm.Points[dip] = Point3D{X: x - offset - 0.02, Y: y + 0.12, Z: -0.04}
		lm.Points[tip] = Point3D{X: x - offset - 0.04, Y: y + 0.14, Z: -0.02}
	}
	curl(MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.01)
	curl(RingMCP, RingPIP, RingDIP, RingTip, 0.04)
	curl(PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.07)

	return lm
}

// OpenHand returns a HandLandmarks preset with the index fingertip at
// the given normalized position and the thumb spread well clear of it,
// so the pose does not register as a pinch.
func OpenHand(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: x - 0.02, Y: y + 0.30, Z: 0.0}

	// Thumb extended sideways, far from the index tip
	lm.Points[ThumbCMC] = Point3D{X: x - 0.06, Y: y + 0.26, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: x - 0.10, Y: y + 0.22, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: x - 0.13, Y: y + 0.19, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: x - 0.15, Y: y + 0.16, Z: 0.0}

	// Index extended to the requested tip position
	lm.Points[IndexMCP] = Point3D{X: x - 0.01, Y: y + 0.18, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: x - 0.005, Y: y + 0.12, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: x, Y: y + 0.06, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: x, Y: y, Z: 0.0}

	// Remaining fingers extended upward next to the index
	extend := func(mcp, pip, dip, tip int, offset float64) {
		lm.Points[mcp] = Point3D{X: x + offset, Y: y + 0.19, Z: 0.0}
		lm.Points[pip] = Point3D{X: x + offset, Y: y + 0.13, Z: 0.0}
		lm.Points[dip] = Point3D{X: x + offset, Y: y + 0.07, Z: 0.0}
		lm.Points[tip] = Point3D{X: x + offset, Y: y + 0.02, Z: 0.0}
	}
	extend(MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.03)
	extend(RingMCP, RingPIP, RingDIP, RingTip, 0.06)
	extend(PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.09)

	return lm
}

// StandingPose returns a PoseLandmarks preset for a person facing the
// camera with the chest centered at (cx, cy) and the given normalized
// shoulder width. Shoulders are level, hips directly below.
func StandingPose(cx, cy, shoulderWidth float64) PoseLandmarks {
	lm := PoseLandmarks{Score: 0.9}

	half := shoulderWidth / 2
	lm.Points[Nose] = Point3D{X: cx, Y: cy - 0.18, Z: 0.0}
	lm.Points[LeftShoulder] = Point3D{X: cx - half, Y: cy, Z: 0.0}
	lm.Points[RightShoulder] = Point3D{X: cx + half, Y: cy, Z: 0.0}
	lm.Points[LeftHip] = Point3D{X: cx - half*0.7, Y: cy + 0.30, Z: 0.0}
	lm.Points[RightHip] = Point3D{X: cx + half*0.7, Y: cy + 0.30, Z: 0.0}

	return lm
}

// TiltedPose returns a StandingPose with the shoulder line raised on the
// right side by dy normalized units, producing a nonzero shoulder angle.
func TiltedPose(cx, cy, shoulderWidth, dy float64) PoseLandmarks {
	lm := StandingPose(cx, cy, shoulderWidth)
	lm.Points[LeftShoulder].Y += dy / 2
	lm.Points[RightShoulder].Y -= dy / 2
	return lm
}
