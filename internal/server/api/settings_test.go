package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fonsirada/clothingapp/internal/capture"
	"github.com/fonsirada/clothingapp/internal/manip"
)

func boolPtr(v bool) *bool { return &v }

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func TestSettingsHandler_Get(t *testing.T) {
	controller := manip.NewController(manip.DefaultParams())
	handler := NewSettingsHandler(controller, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.DwellTimeMs != 500 {
		t.Errorf("expected dwell 500ms, got %d", response.DwellTimeMs)
	}
	if response.ScaleStrategy != "drag" {
		t.Errorf("expected strategy 'drag', got %q", response.ScaleStrategy)
	}
}

func TestSettingsHandler_Put_PartialUpdate(t *testing.T) {
	controller := manip.NewController(manip.DefaultParams())
	handler := NewSettingsHandler(controller, nil, nil)

	reqBody := updateSettingsRequest{
		DwellTimeMs: int64Ptr(750),
		Mirror:      boolPtr(false),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	p := controller.Params()
	if p.DwellTime != 750*time.Millisecond {
		t.Errorf("expected dwell 750ms, got %v", p.DwellTime)
	}
	if p.Mirror {
		t.Error("expected mirror disabled")
	}

	// Untouched fields keep their defaults.
	if p.PinchThreshold != manip.DefaultParams().PinchThreshold {
		t.Errorf("pinch threshold changed unexpectedly: %f", p.PinchThreshold)
	}
}

func TestSettingsHandler_Put_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		req  updateSettingsRequest
	}{
		{"zero dwell", updateSettingsRequest{DwellTimeMs: int64Ptr(0)}},
		{"negative pinch", updateSettingsRequest{PinchThreshold: floatPtr(-0.1)}},
		{"inverted scale bounds", updateSettingsRequest{MinScale: floatPtr(2), MaxScale: floatPtr(1)}},
		{"alpha above one", updateSettingsRequest{SmoothingAlpha: floatPtr(1.5)}},
		{"unknown strategy", updateSettingsRequest{ScaleStrategy: strPtr("pinchzoom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := manip.NewController(manip.DefaultParams())
			handler := NewSettingsHandler(controller, nil, nil)

			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}

			// The controller must be untouched after a rejected update.
			if controller.Params() != manip.DefaultParams() {
				t.Error("params changed despite rejected update")
			}
		})
	}
}

func TestSettingsHandler_Put_PersistsAndReloads(t *testing.T) {
	s := newTestStore(t)
	controller := manip.NewController(manip.DefaultParams())
	handler := NewSettingsHandler(controller, s, nil)

	reqBody := updateSettingsRequest{
		DwellTimeMs:   int64Ptr(600),
		ScaleStrategy: strPtr("twohand"),
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// A fresh process would overlay the stored rows onto the defaults.
	loaded, err := LoadSettings(s, manip.DefaultParams())
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	if loaded.DwellTime != 600*time.Millisecond {
		t.Errorf("expected reloaded dwell 600ms, got %v", loaded.DwellTime)
	}
	if loaded.ScaleStrategy != manip.StrategyTwoHand {
		t.Errorf("expected reloaded strategy 'twohand', got %q", loaded.ScaleStrategy)
	}
}

func TestSettingsHandler_Put_MotionThreshold(t *testing.T) {
	s := newTestStore(t)
	controller := manip.NewController(manip.DefaultParams())
	gate := capture.NewMotionGate(1.0)
	handler := NewSettingsHandler(controller, s, gate)

	body, _ := json.Marshal(updateSettingsRequest{MotionThreshold: floatPtr(2.5)})
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if gate.Threshold() != 2.5 {
		t.Errorf("expected gate threshold 2.5, got %f", gate.Threshold())
	}

	var response settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.MotionThreshold == nil || *response.MotionThreshold != 2.5 {
		t.Errorf("response motion threshold = %v, want 2.5", response.MotionThreshold)
	}

	// A fresh process would pick the persisted value over the config one.
	if got := LoadMotionThreshold(s, 1.0); got != 2.5 {
		t.Errorf("reloaded motion threshold = %f, want 2.5", got)
	}
}

func TestSettingsHandler_Put_MotionThresholdInvalid(t *testing.T) {
	controller := manip.NewController(manip.DefaultParams())
	gate := capture.NewMotionGate(1.0)
	handler := NewSettingsHandler(controller, nil, gate)

	for _, v := range []float64{0, -1, 150} {
		body, _ := json.Marshal(updateSettingsRequest{MotionThreshold: floatPtr(v)})
		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("threshold %f: expected status %d, got %d", v, http.StatusBadRequest, rec.Code)
		}
		if gate.Threshold() != 1.0 {
			t.Errorf("threshold %f: gate changed despite rejected update", v)
		}
	}
}

func TestSettingsHandler_Put_MotionThresholdNoGate(t *testing.T) {
	controller := manip.NewController(manip.DefaultParams())
	handler := NewSettingsHandler(controller, nil, nil)

	body, _ := json.Marshal(updateSettingsRequest{MotionThreshold: floatPtr(2)})
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestSettingsHandler_Put_PersistFailureNonFatal(t *testing.T) {
	s := newTestStore(t)
	controller := manip.NewController(manip.DefaultParams())
	handler := NewSettingsHandler(controller, s, nil)

	// Break the settings table out from under the handler.
	s.Close()

	body, _ := json.Marshal(updateSettingsRequest{DwellTimeMs: int64Ptr(800)})
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// The live update still lands; only persistence is lost.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if controller.Params().DwellTime != 800*time.Millisecond {
		t.Errorf("expected dwell 800ms applied, got %v", controller.Params().DwellTime)
	}
}

func TestLoadMotionThreshold_Fallback(t *testing.T) {
	s := newTestStore(t)

	if got := LoadMotionThreshold(s, 1.0); got != 1.0 {
		t.Errorf("expected fallback 1.0 with nothing stored, got %f", got)
	}

	if err := s.Settings().Set("motion_threshold", "garbage"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if got := LoadMotionThreshold(s, 1.0); got != 1.0 {
		t.Errorf("expected fallback 1.0 for unusable value, got %f", got)
	}
}

func TestLoadSettings_SkipsBadValues(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set("dwell_time_ms", "not-a-number"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := s.Settings().Set("mirror", "false"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}

	loaded, err := LoadSettings(s, manip.DefaultParams())
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	if loaded.DwellTime != manip.DefaultParams().DwellTime {
		t.Errorf("bad dwell value should be skipped, got %v", loaded.DwellTime)
	}
	if loaded.Mirror {
		t.Error("expected mirror overridden to false")
	}
}
