package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test implementation of the Camera interface that
// serves synthetic frames without touching real hardware.
type MockCamera struct {
	mu        sync.Mutex
	open      bool
	fps       int
	fill      float64
	failRead  bool
	alternate bool
}

// NewMockCamera creates a MockCamera producing uniform gray frames.
func NewMockCamera() *MockCamera {
	return &MockCamera{fps: DefaultFPS, fill: 128}
}

// SetFill sets the brightness of generated frames. Alternating the fill
// between reads simulates motion for gate tests.
func (m *MockCamera) SetFill(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fill = v
}

// Alternate flips the frame brightness on every read, so a motion gate
// downstream sees constant motion.
func (m *MockCamera) Alternate(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alternate = on
}

// FailReads makes subsequent ReadFrame calls return an error.
func (m *MockCamera) FailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

// Open marks the camera as open.
func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

// Close marks the camera as closed.
func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// ReadFrame returns a synthetic frame at the capture resolution.
func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.failRead {
		return nil, errors.New("simulated read failure")
	}

	if m.alternate {
		if m.fill < 128 {
			m.fill = 192
		} else {
			m.fill = 64
		}
	}

	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(m.fill, m.fill, m.fill, 0),
		DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3,
	)
	return &mat, nil
}

// SetFPS records the requested frame rate.
func (m *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps = fps
}

// FPS returns the recorded frame rate.
func (m *MockCamera) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

// IsOpen reports whether Open has been called.
func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
