package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fonsirada/clothingapp/internal/app"
	"github.com/fonsirada/clothingapp/internal/config"
	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/fonsirada/clothingapp/internal/server"
	"github.com/fonsirada/clothingapp/internal/server/api"
	"github.com/fonsirada/clothingapp/internal/store"
	"github.com/fonsirada/clothingapp/internal/tray"
)

func main() {
	fmt.Println("Clothing Try-On - Gesture-Controlled Fitting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".clothingapp")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "clothingapp.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Configuration gives the baseline tuning; settings saved from the
	// browser overlay it.
	params, err := api.LoadSettings(st, cfg.ManipParams())
	if err != nil {
		log.Printf("Warning: could not load saved settings: %v", err)
		params = cfg.ManipParams()
	}

	application, err := app.New(app.Config{
		CameraID:     cfg.CameraID,
		MotionThresh: api.LoadMotionThreshold(st, cfg.MotionThreshold),
		Params:       params,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	// Find web directory
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Camera:     application.Camera(),
		Controller: application.Controller(),
		Motion:     application.MotionGate(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread; quitting it ends the process.
	tr := tray.New()
	stopToolWatch := tr.WatchTool(func() string {
		return string(application.Controller().Snapshot().ActiveTool)
	}, 250*time.Millisecond)
	tr.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	tr.OnMode(func(body bool) {
		if body {
			application.Controller().SetMode(manip.ModeBody)
		} else {
			application.Controller().SetMode(manip.ModeHand)
		}
	})
	tr.OnSettings(func() {
		url := "http://localhost" + cfg.Addr
		if err := exec.Command("open", url).Start(); err != nil {
			log.Printf("Failed to open settings: %v", err)
		}
	})
	tr.OnQuit(func() {
		stopToolWatch()
		application.Stop()
	})
	tr.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.clothingapp/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".clothingapp", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
