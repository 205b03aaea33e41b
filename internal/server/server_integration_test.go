package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/fonsirada/clothingapp/internal/store"
)

func TestAPI_DesignWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a design
	createBody := `{"name": "denim_jacket", "image_path": "designs/denim_jacket.png"}`
	resp, err := client.Post(ts.URL+"/api/designs", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/designs error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "denim_jacket" {
		t.Errorf("created name = %s, want denim_jacket", created.Name)
	}

	// 2. Save a layout for it
	layoutBody := `{"position_x": 320, "position_y": 240, "rotation": 10, "scale": 1.2}`
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/designs/"+created.ID+"/layout", strings.NewReader(layoutBody))
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT layout status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 3. Read the layout back
	resp, _ = client.Get(ts.URL + "/api/designs/" + created.ID + "/layout")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET layout status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var layout struct {
		Scale float64 `json:"scale"`
	}
	json.NewDecoder(resp.Body).Decode(&layout)
	resp.Body.Close()

	if layout.Scale != 1.2 {
		t.Errorf("layout scale = %f, want 1.2", layout.Scale)
	}

	// 4. Delete the design; the layout cascades away with it
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/designs/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/designs/" + created.ID + "/layout")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET layout after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}

func TestStateSocket(t *testing.T) {
	controller := manip.NewController(manip.DefaultParams())
	srv := New(Config{Controller: controller})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// The broadcaster should push a snapshot shortly after connect.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed struct {
		State manip.State `json:"state"`
	}
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("failed to read state push: %v", err)
	}

	if pushed.State.Mode != manip.ModeHand {
		t.Errorf("pushed mode = %s, want hand", pushed.State.Mode)
	}
	if pushed.State.Transform.Scale != 1.0 {
		t.Errorf("pushed scale = %f, want 1.0", pushed.State.Transform.Scale)
	}

	// A layout message from the rendering layer lands on the controller.
	layoutMsg := `{
		"container": {"x": 800, "y": 600},
		"hitboxes": {
			"move":   {"left": 10, "top": 10, "right": 60, "bottom": 60},
			"rotate": {"left": 70, "top": 10, "right": 120, "bottom": 60},
			"scale":  {"left": 130, "top": 10, "right": 180, "bottom": 60}
		},
		"mode": "body"
	}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(layoutMsg)); err != nil {
		t.Fatalf("failed to send layout message: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if controller.Mode() == manip.ModeBody {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if controller.Mode() != manip.ModeBody {
		t.Fatal("mode switch from socket never reached the controller")
	}
}
