package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/ayusman/mudra/internal/gesture"
)

// Tray is the system tray menu: start, stop, quit and the last gesture seen.
type Tray struct {
	onStart func()
	onStop  func()
	onQuit  func()
	mu      sync.RWMutex

	menu     *fyne.Menu
	lastItem *fyne.MenuItem
	last     gesture.Label
}

// NewTray creates a Tray. Callbacks are set with OnStart, OnStop and OnQuit.
func NewTray() *Tray {
	t := &Tray{}

	start := fyne.NewMenuItem(StartLabel, func() { t.call(func() func() { return t.onStart }) })
	stop := fyne.NewMenuItem(StopLabel, func() { t.call(func() func() { return t.onStop }) })
	t.lastItem = fyne.NewMenuItem(lastText(""), nil)
	t.lastItem.Disabled = true
	quit := fyne.NewMenuItem("Quit", func() { t.call(func() func() { return t.onQuit }) })
	quit.IsQuit = true

	t.menu = fyne.NewMenu("mudra",
		start,
		stop,
		fyne.NewMenuItemSeparator(),
		t.lastItem,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	return t
}

// OnStart sets the callback for the Start Video item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnStop sets the callback for the Stop Video item.
func (t *Tray) OnStop(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStop = fn
}

// OnQuit sets the callback for the Quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Install attaches the menu to a's system tray. It reports false when the
// driver has no tray.
func (t *Tray) Install(a fyne.App) bool {
	desk, ok := a.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayMenu(t.menu)
	return true
}

// Menu returns the tray menu.
func (t *Tray) Menu() *fyne.Menu {
	return t.menu
}

// SetLastGesture updates the disabled "Last" item. Safe from any goroutine;
// repeated labels are ignored.
func (t *Tray) SetLastGesture(l gesture.Label) {
	t.mu.Lock()
	if l == t.last {
		t.mu.Unlock()
		return
	}
	t.last = l
	t.mu.Unlock()

	fyne.Do(func() {
		t.lastItem.Label = lastText(l)
		t.menu.Refresh()
	})
}

// LastGesture returns the label shown in the "Last" item.
func (t *Tray) LastGesture() gesture.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// call runs the callback outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func lastText(l gesture.Label) string {
	if l == "" {
		return "Last: none"
	}
	return "Last: " + string(l)
}
