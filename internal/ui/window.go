// Package ui is the desktop surface: the video window and the tray menu.
package ui

import (
	"image"
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/app"
)

// Window geometry and text.
const (
	Title  = "Hand Gesture and Face Recognition"
	Width  = 1200
	Height = 600

	StartLabel = "Start Video"
	StopLabel  = "Stop Video"
)

// Controller is the loop the window drives.
type Controller interface {
	Start() error
	Stop()
}

// Window shows the annotated video, the Start/Stop buttons, the loop status
// and the latest labels. It implements app.Display.
type Window struct {
	win    fyne.Window
	video  *canvas.Image
	status *widget.Label
	labels *widget.Label
	start  *widget.Button
	stop   *widget.Button
	log    logrus.FieldLogger

	// pending holds the newest frame not yet drawn; non-nil means a flush
	// is scheduled on the UI thread.
	pending atomic.Pointer[image.Image]
}

// NewWindow builds the window on a. Call Bind before showing it.
func NewWindow(a fyne.App, log logrus.FieldLogger) *Window {
	if log == nil {
		log = logrus.StandardLogger()
	}

	w := &Window{
		win:    a.NewWindow(Title),
		video:  canvas.NewImageFromImage(nil),
		status: widget.NewLabel(string(app.StatusWaiting)),
		labels: widget.NewLabel(FormatLabels(app.Labels{})),
		log:    log.WithField("component", "ui"),
	}
	w.video.FillMode = canvas.ImageFillContain
	w.video.SetMinSize(fyne.NewSize(640, 480))

	w.start = widget.NewButton(StartLabel, nil)
	w.stop = widget.NewButton(StopLabel, nil)

	controls := container.NewHBox(w.start, w.stop, layout.NewSpacer(), w.labels)
	w.win.SetContent(container.NewBorder(nil, container.NewVBox(controls, w.status), nil, nil, w.video))
	w.win.Resize(fyne.NewSize(Width, Height))
	w.win.SetFixedSize(false)

	return w
}

// Bind wires the buttons and window close to ctrl. Start and Stop always run
// off the UI thread, so a slow in-flight frame never freezes the window.
func (w *Window) Bind(ctrl Controller) {
	w.start.OnTapped = func() {
		go func() {
			if err := ctrl.Start(); err != nil {
				w.log.WithError(err).Error("start video")
			}
		}()
	}
	w.stop.OnTapped = func() {
		go ctrl.Stop()
	}
	w.win.SetOnClosed(func() {
		go ctrl.Stop()
	})
}

// Window returns the underlying fyne window.
func (w *Window) Window() fyne.Window {
	return w.win
}

// SetStatus implements app.Display.
func (w *Window) SetStatus(s app.Status) {
	fyne.Do(func() {
		w.status.SetText(string(s))
	})
}

// ShowFrame implements app.Display. Frames arriving faster than the UI
// draws them replace each other.
func (w *Window) ShowFrame(img image.Image) {
	if w.pending.Swap(&img) != nil {
		return
	}
	fyne.Do(w.flush)
}

func (w *Window) flush() {
	p := w.pending.Swap(nil)
	if p == nil {
		return
	}
	w.video.Image = *p
	w.video.Refresh()
}

// Clear implements app.Display. Any frame not yet drawn is dropped.
func (w *Window) Clear() {
	w.pending.Store(nil)
	fyne.Do(func() {
		w.video.Image = nil
		w.video.Refresh()
		w.labels.SetText(FormatLabels(app.Labels{}))
	})
}

// SetLabels shows the latest classifications.
func (w *Window) SetLabels(l app.Labels) {
	text := FormatLabels(l)
	fyne.Do(func() {
		w.labels.SetText(text)
	})
}

// FormatLabels renders the labels line.
func FormatLabels(l app.Labels) string {
	gestures := "none"
	if len(l.Gestures) > 0 {
		parts := make([]string, len(l.Gestures))
		for i, g := range l.Gestures {
			parts[i] = string(g)
		}
		gestures = strings.Join(parts, ", ")
	}
	expr := "none"
	if l.Face != "" {
		expr = string(l.Face)
	}
	return "Gestures: " + gestures + " | Face: " + expr
}
