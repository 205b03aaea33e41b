// Package tray provides a macOS system tray interface for the virtual try-on daemon.
package tray

import (
	"sync"
	"time"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onMode     func(body bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	tool       string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuHandMode *systray.MenuItem
	menuBodyMode *systray.MenuItem
	menuTool     *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		tool:    "none",
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback for mode switches; body is true for body fit.
func (t *Tray) OnMode(fn func(body bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Try-On")
	systray.SetTooltip("Virtual Clothing Try-On")

	t.menuToggle = systray.AddMenuItem("● Tracking On", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuHandMode = systray.AddMenuItemCheckbox("Hand Fit", "Manipulate the overlay by gesture", true)
	t.menuBodyMode = systray.AddMenuItemCheckbox("Body Fit", "Fit the overlay to your body", false)
	systray.AddSeparator()

	t.menuTool = systray.AddMenuItem("Tool: none", "Currently selected tool")
	t.menuTool.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the try-on daemon")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuHandMode.ClickedCh:
				t.handleMode(false)
			case <-t.menuBodyMode.ClickedCh:
				t.handleMode(true)
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Tracking On")
	} else {
		t.menuToggle.SetTitle("○ Tracking Off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleMode handles a mode menu item click and keeps the checkboxes
// mutually exclusive.
func (t *Tray) handleMode(body bool) {
	t.mu.Lock()
	if body {
		t.menuBodyMode.Check()
		t.menuHandMode.Uncheck()
	} else {
		t.menuHandMode.Check()
		t.menuBodyMode.Uncheck()
	}
	callback := t.onMode
	t.mu.Unlock()

	if callback != nil {
		callback(body)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetTool updates the current tool display in the menu.
func (t *Tray) SetTool(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" {
		name = "none"
	}
	t.tool = name

	if t.menuTool != nil {
		t.menuTool.SetTitle("Tool: " + name)
	}
}

// CurrentTool returns the tool name the menu currently displays.
func (t *Tray) CurrentTool() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tool
}

// WatchTool polls the given source and updates the tool display when
// the value changes. The returned function stops the watcher and is
// safe to call more than once.
func (t *Tray) WatchTool(current func() string, interval time.Duration) func() {
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := ""
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if name := current(); name != last {
					last = name
					t.SetTool(name)
				}
			}
		}
	}()

	return func() { once.Do(func() { close(stopCh) }) }
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
