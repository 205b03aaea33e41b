// Package app wires the capture, detection, and manipulation layers
// into the try-on pipeline.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/fonsirada/clothingapp/internal/capture"
	"github.com/fonsirada/clothingapp/internal/detector"
	"github.com/fonsirada/clothingapp/internal/manip"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate while nothing moves in view.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate during manipulation. Gesture
	// latching needs a fluid stream, so this runs well above idle.
	DefaultActiveFPS = 30
	// IdleTimeoutMs is how long without motion before dropping back to idle.
	IdleTimeoutMs = 2000
)

// Config holds construction options for the application.
type Config struct {
	CameraID     int
	MotionThresh float64
	Params       manip.Params

	// Detector overrides the MediaPipe backend, used by tests.
	Detector detector.Detector

	// IdleFPS and ActiveFPS override the pipeline frame rates when
	// positive.
	IdleFPS   int
	ActiveFPS int
}

// App owns the detection pipeline and the manipulation controller.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionGate
	detector   detector.Detector
	controller *manip.Controller
	idleFPS    int
	activeFPS  int
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates an App. A missing landmark backend is terminal: the
// pipeline is useless without one, so the error is surfaced to the
// caller instead of silently degrading.
func New(config Config) (*App, error) {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionGate(motionThreshold),
		controller: manip.NewController(config.Params),
		idleFPS:    DefaultIdleFPS,
		activeFPS:  DefaultActiveFPS,
		enabled:    true,
	}
	if config.IdleFPS > 0 {
		a.idleFPS = config.IdleFPS
	}
	if config.ActiveFPS > 0 {
		a.activeFPS = config.ActiveFPS
	}

	if config.Detector != nil {
		a.detector = config.Detector
	} else {
		mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("initialize landmark backend: %w", err)
		}
		a.detector = mp
	}

	return a, nil
}

// SetEnabled enables or disables landmark tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera replaces the camera implementation, used by tests.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.camera.SetFPS(a.idleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Try-on pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Try-on pipeline stopped")
}

// Controller returns the manipulation controller.
func (a *App) Controller() *manip.Controller {
	return a.controller
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionGate returns the motion gate instance.
func (a *App) MotionGate() *capture.MotionGate {
	return a.motion
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
