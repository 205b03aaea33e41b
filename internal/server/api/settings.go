package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fonsirada/clothingapp/internal/capture"
	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/fonsirada/clothingapp/internal/store"
)

// SettingsHandler exposes the live tuning parameters. Updates take
// effect immediately on the controller and motion gate and are
// persisted so they survive a restart.
type SettingsHandler struct {
	controller *manip.Controller
	store      *store.Store
	motion     *capture.MotionGate
}

// NewSettingsHandler creates a new SettingsHandler. The store may be
// nil; updates then apply without persisting. The motion gate may be
// nil; motion_threshold updates are then rejected.
func NewSettingsHandler(c *manip.Controller, s *store.Store, motion *capture.MotionGate) *SettingsHandler {
	return &SettingsHandler{controller: c, store: s, motion: motion}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsResponse struct {
	DwellTimeMs     int64    `json:"dwell_time_ms"`
	PinchThreshold  float64  `json:"pinch_threshold"`
	RotationSpeed   float64  `json:"rotation_speed"`
	ScaleSpeed      float64  `json:"scale_speed"`
	MinScale        float64  `json:"min_scale"`
	MaxScale        float64  `json:"max_scale"`
	SmoothingAlpha  float64  `json:"smoothing_alpha"`
	VerticalOffset  float64  `json:"vertical_offset"`
	Mirror          bool     `json:"mirror"`
	ScaleStrategy   string   `json:"scale_strategy"`
	MotionThreshold *float64 `json:"motion_threshold,omitempty"`
}

type updateSettingsRequest struct {
	DwellTimeMs     *int64   `json:"dwell_time_ms"`
	PinchThreshold  *float64 `json:"pinch_threshold"`
	RotationSpeed   *float64 `json:"rotation_speed"`
	ScaleSpeed      *float64 `json:"scale_speed"`
	MinScale        *float64 `json:"min_scale"`
	MaxScale        *float64 `json:"max_scale"`
	SmoothingAlpha  *float64 `json:"smoothing_alpha"`
	VerticalOffset  *float64 `json:"vertical_offset"`
	Mirror          *bool    `json:"mirror"`
	ScaleStrategy   *string  `json:"scale_strategy"`
	MotionThreshold *float64 `json:"motion_threshold"`
}

func toSettingsResponse(p manip.Params) settingsResponse {
	return settingsResponse{
		DwellTimeMs:    p.DwellTime.Milliseconds(),
		PinchThreshold: p.PinchThreshold,
		RotationSpeed:  p.RotationSpeed,
		ScaleSpeed:     p.ScaleSpeed,
		MinScale:       p.MinScale,
		MaxScale:       p.MaxScale,
		SmoothingAlpha: p.SmoothingAlpha,
		VerticalOffset: p.VerticalOffset,
		Mirror:         p.Mirror,
		ScaleStrategy:  string(p.ScaleStrategy),
	}
}

// get handles GET /api/settings and returns the live parameters.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	response := toSettingsResponse(h.controller.Params())
	if h.motion != nil {
		threshold := h.motion.Threshold()
		response.MotionThreshold = &threshold
	}
	writeJSON(w, http.StatusOK, response)
}

// put handles PUT /api/settings. Omitted fields keep their current
// values.
func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p := h.controller.Params()

	if req.DwellTimeMs != nil {
		if *req.DwellTimeMs <= 0 {
			writeError(w, http.StatusBadRequest, "dwell_time_ms must be positive")
			return
		}
		p.DwellTime = time.Duration(*req.DwellTimeMs) * time.Millisecond
	}
	if req.PinchThreshold != nil {
		if *req.PinchThreshold <= 0 {
			writeError(w, http.StatusBadRequest, "pinch_threshold must be positive")
			return
		}
		p.PinchThreshold = *req.PinchThreshold
	}
	if req.RotationSpeed != nil {
		p.RotationSpeed = *req.RotationSpeed
	}
	if req.ScaleSpeed != nil {
		p.ScaleSpeed = *req.ScaleSpeed
	}
	if req.MinScale != nil {
		p.MinScale = *req.MinScale
	}
	if req.MaxScale != nil {
		p.MaxScale = *req.MaxScale
	}
	if p.MinScale <= 0 || p.MaxScale < p.MinScale {
		writeError(w, http.StatusBadRequest, "Invalid scale bounds")
		return
	}
	if req.SmoothingAlpha != nil {
		if *req.SmoothingAlpha <= 0 || *req.SmoothingAlpha > 1 {
			writeError(w, http.StatusBadRequest, "smoothing_alpha must be in (0, 1]")
			return
		}
		p.SmoothingAlpha = *req.SmoothingAlpha
	}
	if req.VerticalOffset != nil {
		p.VerticalOffset = *req.VerticalOffset
	}
	if req.Mirror != nil {
		p.Mirror = *req.Mirror
	}
	if req.ScaleStrategy != nil {
		strategy := manip.ScaleStrategy(*req.ScaleStrategy)
		if strategy != manip.StrategyDrag && strategy != manip.StrategyTwoHand {
			writeError(w, http.StatusBadRequest, "Invalid scale strategy")
			return
		}
		p.ScaleStrategy = strategy
	}
	if req.MotionThreshold != nil {
		if h.motion == nil {
			writeError(w, http.StatusConflict, "No motion gate to tune")
			return
		}
		if *req.MotionThreshold <= 0 || *req.MotionThreshold > 100 {
			writeError(w, http.StatusBadRequest, "motion_threshold must be in (0, 100]")
			return
		}
	}

	h.controller.SetParams(p)
	if req.MotionThreshold != nil {
		h.motion.SetThreshold(*req.MotionThreshold)
	}
	h.persist(p)

	response := toSettingsResponse(h.controller.Params())
	if h.motion != nil {
		threshold := h.motion.Threshold()
		response.MotionThreshold = &threshold
	}
	writeJSON(w, http.StatusOK, response)
}

// persist writes the full parameter set to the settings table.
// Persistence failures are non-fatal; the live update already landed,
// but a broken table should still show up in the log.
func (h *SettingsHandler) persist(p manip.Params) {
	if h.store == nil {
		return
	}

	pairs := []struct {
		key, value string
	}{
		{"dwell_time_ms", strconv.FormatInt(p.DwellTime.Milliseconds(), 10)},
		{"pinch_threshold", formatFloat(p.PinchThreshold)},
		{"rotation_speed", formatFloat(p.RotationSpeed)},
		{"scale_speed", formatFloat(p.ScaleSpeed)},
		{"min_scale", formatFloat(p.MinScale)},
		{"max_scale", formatFloat(p.MaxScale)},
		{"smoothing_alpha", formatFloat(p.SmoothingAlpha)},
		{"vertical_offset", formatFloat(p.VerticalOffset)},
		{"mirror", strconv.FormatBool(p.Mirror)},
		{"scale_strategy", string(p.ScaleStrategy)},
	}
	if h.motion != nil {
		pairs = append(pairs, struct {
			key, value string
		}{"motion_threshold", formatFloat(h.motion.Threshold())})
	}

	settings := h.store.Settings()
	for _, kv := range pairs {
		if err := settings.Set(kv.key, kv.value); err != nil {
			log.Printf("Failed to persist setting %s: %v", kv.key, err)
			return
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// LoadSettings overlays persisted setting rows onto the given
// parameters, returning the merged result. Unknown keys and unparsable
// values are skipped.
func LoadSettings(s *store.Store, p manip.Params) (manip.Params, error) {
	stored, err := s.Settings().All()
	if err != nil {
		return p, fmt.Errorf("loading settings: %w", err)
	}

	for key, value := range stored {
		switch key {
		case "dwell_time_ms":
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
				p.DwellTime = time.Duration(ms) * time.Millisecond
			}
		case "pinch_threshold":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				p.PinchThreshold = f
			}
		case "rotation_speed":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				p.RotationSpeed = f
			}
		case "scale_speed":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				p.ScaleSpeed = f
			}
		case "min_scale":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				p.MinScale = f
			}
		case "max_scale":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				p.MaxScale = f
			}
		case "smoothing_alpha":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f <= 1 {
				p.SmoothingAlpha = f
			}
		case "vertical_offset":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				p.VerticalOffset = f
			}
		case "mirror":
			if b, err := strconv.ParseBool(value); err == nil {
				p.Mirror = b
			}
		case "scale_strategy":
			switch strategy := manip.ScaleStrategy(value); strategy {
			case manip.StrategyDrag, manip.StrategyTwoHand:
				p.ScaleStrategy = strategy
			}
		}
	}

	return p, nil
}

// LoadMotionThreshold returns the persisted motion threshold, or the
// fallback when none is stored or the value is unusable.
func LoadMotionThreshold(s *store.Store, fallback float64) float64 {
	value, err := s.Settings().Get("motion_threshold")
	if err != nil {
		return fallback
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f <= 100 {
		return f
	}
	return fallback
}
