package manip

import "time"

// dwellSelector converts "fingertip held over button B" into a toggled
// tool selection. It is a three-state machine: idle (no hover), hovering
// (timer running), and locked (toggle fired, waiting for the hover to
// break). The consumed flag is the lock: it guarantees exactly one
// toggle per unbroken dwell-qualifying hover.
type dwellSelector struct {
	hovered  Tool
	since    time.Time
	consumed bool
}

// Reset clears the working state. Called when no hand is present or
// while pinching; the dwell timer is re-armed, never accumulated,
// across interruptions.
func (s *dwellSelector) Reset() {
	s.hovered = ToolNone
	s.since = time.Time{}
	s.consumed = false
}

// Update evaluates one frame of hover state. hovered is the tool whose
// hitbox contains the fingertip, or ToolNone. It returns the new active
// tool and whether a toggle fired this frame.
func (s *dwellSelector) Update(hovered, active Tool, now time.Time, dwell time.Duration) (Tool, bool) {
	if hovered == ToolNone {
		s.Reset()
		return active, false
	}

	if hovered != s.hovered {
		// New hover target: restart the clock.
		s.hovered = hovered
		s.since = now
		s.consumed = false
		return active, false
	}

	if s.consumed || now.Sub(s.since) <= dwell {
		return active, false
	}

	// Dwell satisfied: toggle once and lock until the hover breaks.
	s.consumed = true
	if active == hovered {
		return ToolNone, true
	}
	return hovered, true
}

// hitTest returns the tool whose hitbox contains the point, or ToolNone.
// Hitboxes are re-read every call because the layout is responsive.
func hitTest(p Point, hitboxes map[Tool]Rect) Tool {
	for _, tool := range []Tool{ToolMove, ToolRotate, ToolScale} {
		if r, ok := hitboxes[tool]; ok && r.Contains(p) {
			return tool
		}
	}
	return ToolNone
}
