package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/fonsirada/clothingapp/internal/store"
)

// LayoutHandler handles HTTP requests for saved design layouts. A layout
// is the last transform the user left a design in; saving one and
// re-applying it later is how a fitting session survives a restart.
type LayoutHandler struct {
	store      *store.Store
	controller *manip.Controller
}

// NewLayoutHandler creates a new LayoutHandler with the given store and
// controller. The controller may be nil; apply requests then fail.
func NewLayoutHandler(s *store.Store, c *manip.Controller) *LayoutHandler {
	return &LayoutHandler{store: s, controller: c}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *LayoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected path: /api/designs/{id}/layout
	path := strings.TrimPrefix(r.URL.Path, "/api/designs/")
	id := strings.TrimSuffix(path, "/layout")
	if id == "" || id == path {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.put(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type layoutRequest struct {
	PositionX *float64 `json:"position_x"`
	PositionY *float64 `json:"position_y"`
	Rotation  *float64 `json:"rotation"`
	Scale     *float64 `json:"scale"`

	// Apply pushes the saved layout into the live controller so the
	// overlay jumps to it immediately.
	Apply bool `json:"apply"`
}

type layoutResponse struct {
	DesignID  string  `json:"design_id"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Rotation  float64 `json:"rotation"`
	Scale     float64 `json:"scale"`
	UpdatedAt string  `json:"updated_at"`
}

func toLayoutResponse(l *store.Layout) layoutResponse {
	return layoutResponse{
		DesignID:  l.DesignID,
		PositionX: l.PositionX,
		PositionY: l.PositionY,
		Rotation:  l.Rotation,
		Scale:     l.Scale,
		UpdatedAt: l.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// get handles GET /api/designs/{id}/layout and returns the saved layout.
func (h *LayoutHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	layout, err := h.store.Layouts().Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get layout")
		return
	}

	writeJSON(w, http.StatusOK, toLayoutResponse(layout))
}

// put handles PUT /api/designs/{id}/layout. Fields omitted from the
// request default to the live controller transform, so a bare
// {"apply":false} body snapshots the current fitting.
func (h *LayoutHandler) put(w http.ResponseWriter, r *http.Request, id string) {
	// The design must exist; layouts cascade from it.
	if _, err := h.store.Designs().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Design not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get design")
		return
	}

	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	layout := &store.Layout{DesignID: id, Scale: 1}
	if h.controller != nil {
		t := h.controller.Snapshot().Transform
		layout.PositionX = t.Position.X
		layout.PositionY = t.Position.Y
		layout.Rotation = t.Rotation
		layout.Scale = t.Scale
	}
	if req.PositionX != nil {
		layout.PositionX = *req.PositionX
	}
	if req.PositionY != nil {
		layout.PositionY = *req.PositionY
	}
	if req.Rotation != nil {
		layout.Rotation = *req.Rotation
	}
	if req.Scale != nil {
		layout.Scale = *req.Scale
	}

	if err := h.store.Layouts().Save(layout); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save layout")
		return
	}

	if req.Apply {
		if h.controller == nil {
			writeError(w, http.StatusConflict, "No live controller to apply to")
			return
		}
		h.controller.SetTransform(manip.Transform{
			Position: manip.Point{X: layout.PositionX, Y: layout.PositionY},
			Rotation: layout.Rotation,
			Scale:    layout.Scale,
		})
	}

	writeJSON(w, http.StatusOK, toLayoutResponse(layout))
}

// delete handles DELETE /api/designs/{id}/layout.
func (h *LayoutHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Layouts().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete layout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
