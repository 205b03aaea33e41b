package manip

import (
	"sync"
	"time"

	"github.com/fonsirada/clothingapp/internal/detector"
)

// Default container dimensions, matching the capture resolution. The
// rendering layer replaces these with the real element size via SetLayout.
const (
	DefaultContainerWidth  = 640
	DefaultContainerHeight = 480
)

// State is a read-only snapshot of the controller for the rendering
// layer: the active tool for button highlighting, the transform for
// drawing the overlay, pinch/fingertip for a cursor indicator, and the
// body measurement for debug overlays in body mode.
type State struct {
	Mode         Mode             `json:"mode"`
	ActiveTool   Tool             `json:"active_tool"`
	Transform    Transform        `json:"transform"`
	Pinching     bool             `json:"pinching"`
	Fingertip    Point            `json:"fingertip"`
	HandsPresent int              `json:"hands_present"`
	Body         *BodyMeasurement `json:"body,omitempty"`
}

// Controller owns the shared manipulation state and processes one
// observation per callback. Observations arrive serially from the
// pipeline, but the server snapshots state from its own goroutine and
// the settings API mutates params, so everything sits behind a mutex.
type Controller struct {
	mu        sync.Mutex
	params    Params
	container Point
	hitboxes  map[Tool]Rect

	mode     Mode
	active   Tool
	selector dwellSelector
	mapper   mapper
	calib    calibrator

	transform    Transform
	pinching     bool
	fingertip    Point
	handsPresent int
	body         *BodyMeasurement
}

// NewController creates a controller in hand mode with the overlay
// centered in the default container at scale 1.
func NewController(params Params) *Controller {
	return &Controller{
		params:    params,
		container: Point{X: DefaultContainerWidth, Y: DefaultContainerHeight},
		mode:      ModeHand,
		active:    ToolNone,
		transform: Transform{
			Position: Point{X: DefaultContainerWidth / 2, Y: DefaultContainerHeight / 2},
			Scale:    1.0,
		},
	}
}

// SetLayout updates the container size and toolbar hitboxes. Called by
// the rendering layer whenever its layout changes.
func (c *Controller) SetLayout(container Point, hitboxes map[Tool]Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if container.X > 0 && container.Y > 0 {
		c.container = container
	}
	c.hitboxes = hitboxes
}

// SetParams replaces the tuning parameters. The transform is re-clamped
// in case the scale bounds tightened.
func (c *Controller) SetParams(p Params) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.params = p
	c.transform.Scale = clampScale(c.transform.Scale, p)
}

// Params returns the current tuning parameters.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetMode switches between hand manipulation and body fitting. The
// calibration baseline and all transient gesture state are discarded;
// the transform and active tool persist across the switch.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m == c.mode {
		return
	}
	c.mode = m
	c.calib.Reset()
	c.selector.Reset()
	c.mapper.Release()
	c.pinching = false
	c.body = nil
}

// Mode returns the current input mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetTransform overwrites the transform, e.g. when the user loads a
// saved layout. Scale is clamped at write time like every other path.
func (c *Controller) SetTransform(t Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t.Scale = clampScale(t.Scale, c.params)
	c.transform = t
}

// HandleObservation processes one detector frame at the given time.
// The timestamp comes from the frame, not the wall clock, which keeps
// the dwell machine deterministic under test.
func (c *Controller) HandleObservation(obs *detector.Observation, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if obs == nil {
		return
	}

	switch c.mode {
	case ModeBody:
		c.handleBody(obs.Pose)
	default:
		c.handleHands(obs.Hands, now)
	}
}

// handleHands runs the per-frame hand pipeline: pinch classification,
// then either the mapper (while pinching) or the dwell selector (while
// not). A no-hand frame is an implicit cancellation: it resets the
// hover and latch state but preserves the active tool and transform.
func (c *Controller) handleHands(hands []detector.HandLandmarks, now time.Time) {
	if len(hands) == 0 {
		c.handsPresent = 0
		c.pinching = false
		c.selector.Reset()
		c.mapper.Release()
		return
	}

	frame := deriveFrame(hands, c.params, c.container)
	c.handsPresent = frame.HandsPresent
	c.fingertip = frame.Fingertip
	c.pinching = frame.IsPinching

	if frame.IsPinching {
		// The selector never runs mid-pinch, so a held gesture cannot
		// switch tools under the latch.
		c.selector.Reset()
		if c.active != ToolNone {
			c.mapper.Apply(&c.transform, c.active, frame, c.params)
		}
		return
	}

	c.mapper.Release()
	hovered := hitTest(frame.Fingertip, c.hitboxes)
	c.active, _ = c.selector.Update(hovered, c.active, now, c.params.DwellTime)
}

// handleBody runs the body-fit pipeline. A no-body or degenerate frame
// skips the update and retains the previous transform; the calibration
// baseline survives until the mode is exited.
func (c *Controller) handleBody(pose *detector.PoseLandmarks) {
	m, ok := MeasureBody(pose, c.container, c.params.Mirror)
	if !ok {
		c.body = nil
		return
	}

	c.body = &m
	c.calib.Apply(&c.transform, m, c.params)
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Mode:         c.mode,
		ActiveTool:   c.active,
		Transform:    c.transform,
		Pinching:     c.pinching,
		Fingertip:    c.fingertip,
		HandsPresent: c.handsPresent,
	}
	if c.body != nil {
		body := *c.body
		s.Body = &body
	}
	return s
}
