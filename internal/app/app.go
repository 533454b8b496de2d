// Package app runs the capture/display loop: a worker goroutine reads camera
// frames, runs them through the vision pipeline and hands annotated images to
// a Display.
package app

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/face"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/vision"
)

// Loop defaults.
const (
	DefaultTickInterval    = 10 * time.Millisecond
	DefaultMaxReadFailures = 5
)

// Status is the user-visible loop status.
type Status string

const (
	StatusWaiting      Status = "Waiting"
	StatusStarting     Status = "Starting video…"
	StatusDetecting    Status = "Detecting gestures and smiles…"
	StatusStopped      Status = "Video stopped"
	StatusCaptureError Status = "Video capture error"
)

// State is the loop state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Display receives loop output. Implementations must not block: they are
// called from the worker and presenter goroutines as well as from Start and Stop.
type Display interface {
	SetStatus(Status)
	ShowFrame(image.Image)
	Clear()
}

// FrameProcessor turns a raw frame into an annotated result.
type FrameProcessor interface {
	Process(frame *gocv.Mat) (*vision.Result, error)
}

// Labels are the classifications of the most recent processed frame.
type Labels struct {
	Gestures []gesture.Label
	Face     face.Expression
}

// Config holds loop options.
type Config struct {
	TickInterval    time.Duration
	MaxReadFailures int
	Logger          logrus.FieldLogger
	// OnLabels, if set, is called from the worker after every processed frame.
	// It must not block.
	OnLabels func(Labels)
}

// App owns the camera while running and drives the worker.
type App struct {
	config    Config
	camera    capture.Camera
	processor FrameProcessor
	display   Display
	log       logrus.FieldLogger

	mu    sync.Mutex
	state State
	run   *run
}

// run is one Running period. Each Start gets a fresh one.
type run struct {
	stop      chan struct{}
	done      chan struct{} // worker exited
	presented chan struct{} // presenter exited
	frames    chan image.Image
}

func newRun() *run {
	return &run{
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		presented: make(chan struct{}),
		frames:    make(chan image.Image, 1),
	}
}

// New creates an idle App and publishes the initial status.
func New(config Config, camera capture.Camera, processor FrameProcessor, display Display) *App {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.MaxReadFailures <= 0 {
		config.MaxReadFailures = DefaultMaxReadFailures
	}
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	a := &App{
		config:    config,
		camera:    camera,
		processor: processor,
		display:   display,
		log:       log.WithField("component", "app"),
	}
	display.SetStatus(StatusWaiting)
	return a
}

// State returns the current loop state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start opens the camera and spawns the worker. Starting a running loop is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == Running {
		return nil
	}

	a.display.SetStatus(StatusStarting)
	if err := a.camera.Open(); err != nil {
		a.log.WithError(err).Error("camera open failed")
		a.display.SetStatus(StatusCaptureError)
		return fmt.Errorf("start capture: %w", err)
	}

	r := newRun()
	a.run = r
	a.state = Running

	go a.present(r)
	go a.work(r)

	a.log.Info("capture loop started")
	return nil
}

// Stop halts the worker, waits for the in-flight frame, releases the camera
// and clears the display. Stopping an idle loop is a no-op.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Running {
		return
	}
	a.halt(StatusStopped)
}

// stopAfterFailure is spawned by a worker that gave up on the camera.
func (a *App) stopAfterFailure(r *run) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.run != r {
		return
	}
	a.halt(StatusCaptureError)
}

// halt must be called with a.mu held while Running.
func (a *App) halt(status Status) {
	r := a.run
	close(r.stop)
	<-r.done
	<-r.presented

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Warn("camera close failed")
	}

	a.display.Clear()
	a.display.SetStatus(status)

	a.run = nil
	a.state = Idle

	a.log.WithField("status", status).Info("capture loop stopped")
}

// present drains the mailbox into the display.
func (a *App) present(r *run) {
	defer close(r.presented)
	for {
		select {
		case <-r.stop:
			return
		case img := <-r.frames:
			a.display.ShowFrame(img)
		}
	}
}

// post replaces any unconsumed frame with img.
func (r *run) post(img image.Image) {
	for {
		select {
		case r.frames <- img:
			return
		default:
		}
		select {
		case <-r.frames:
		default:
		}
	}
}
