// Package api provides HTTP API handlers for the virtual try-on system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fonsirada/clothingapp/internal/store"
)

// DesignHandler handles HTTP requests for design resources.
type DesignHandler struct {
	store *store.Store
}

// NewDesignHandler creates a new DesignHandler with the given store.
func NewDesignHandler(s *store.Store) *DesignHandler {
	return &DesignHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *DesignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/designs or /api/designs/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/designs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/designs
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/designs/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createDesignRequest struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type updateDesignRequest struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type designResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listDesignsResponse struct {
	Designs []designResponse `json:"designs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Design to a designResponse.
func toResponse(d *store.Design) designResponse {
	return designResponse{
		ID:        d.ID,
		Name:      d.Name,
		ImagePath: d.ImagePath,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/designs and returns all designs.
func (h *DesignHandler) list(w http.ResponseWriter, r *http.Request) {
	designs, err := h.store.Designs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list designs")
		return
	}

	response := listDesignsResponse{
		Designs: make([]designResponse, 0, len(designs)),
	}

	for _, d := range designs {
		response.Designs = append(response.Designs, toResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/designs/{id} and returns a single design.
func (h *DesignHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	design, err := h.store.Designs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Design not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get design")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(design))
}

// create handles POST /api/designs and creates a new design.
func (h *DesignHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	design := &store.Design{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ImagePath: req.ImagePath,
	}

	if err := h.store.Designs().Create(design); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create design")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(design))
}

// update handles PUT /api/designs/{id} and updates an existing design.
func (h *DesignHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	design, err := h.store.Designs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Design not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get design")
		return
	}

	var req updateDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" {
		design.Name = req.Name
	}
	if req.ImagePath != "" {
		design.ImagePath = req.ImagePath
	}

	if err := h.store.Designs().Update(design); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update design")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(design))
}

// delete handles DELETE /api/designs/{id} and removes a design.
func (h *DesignHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Designs().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Design not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete design")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
