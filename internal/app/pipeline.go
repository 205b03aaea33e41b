package app

import (
	"log"
	"time"

	"github.com/fonsirada/clothingapp/internal/detector"
)

// runPipeline is the main loop that feeds camera frames through the
// detector into the manipulation controller.
//
// Pipeline logic:
//  1. Start at idle FPS.
//  2. On motion, switch to active FPS and run landmark detection.
//  3. Every observation goes to the controller, including empty ones:
//     a no-hand frame is a cancellation signal, not a skippable result.
//  4. After 2 s without motion, drop back to idle and synthesize one
//     empty observation so transient gesture state resets cleanly.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(a.idleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(a.activeFPS)
					frameInterval = time.Second / time.Duration(a.activeFPS)
					ticker.Reset(frameInterval)
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeoutMs*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(a.idleFPS)
					frameInterval = time.Second / time.Duration(a.idleFPS)
					ticker.Reset(frameInterval)

					// Going quiet mid-gesture must not freeze a latch.
					a.controller.HandleObservation(&detector.Observation{}, time.Now())
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				continue
			}

			obs, err := a.detector.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting landmarks: %v", err)
				continue
			}

			a.controller.HandleObservation(obs, time.Now())
		}
	}
}
