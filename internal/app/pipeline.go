package app

import (
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// work is the capture loop. It never takes a.mu; when the camera keeps
// failing it hands the shutdown to stopAfterFailure and exits.
func (a *App) work(r *run) {
	defer close(r.done)

	ticker := time.NewTicker(a.config.TickInterval)
	defer ticker.Stop()

	var (
		failures int
		status   Status
	)
	setStatus := func(s Status) {
		if s != status {
			status = s
			a.display.SetStatus(s)
		}
	}

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
		}

		// Stop may have raced the tick.
		select {
		case <-r.stop:
			return
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			failures++
			a.log.WithError(err).WithField("failures", failures).Warn("frame read failed")
			setStatus(StatusCaptureError)
			if failures >= a.config.MaxReadFailures {
				a.log.WithField("failures", failures).Error("giving up on camera")
				go a.stopAfterFailure(r)
				return
			}
			continue
		}
		failures = 0

		a.handle(r, frame)
		setStatus(StatusDetecting)
	}
}

// handle processes one frame and posts the annotated image. A processing
// error drops the frame without counting as a read failure.
func (a *App) handle(r *run, frame *gocv.Mat) {
	defer frame.Close()

	res, err := a.processor.Process(frame)
	if err != nil {
		a.log.WithError(err).Warn("frame processing failed")
		return
	}
	defer res.Close()

	img, err := res.Frame.ToImage()
	if err != nil {
		a.log.WithError(err).Warn("frame conversion failed")
		return
	}
	r.post(img)

	if a.config.OnLabels != nil {
		a.config.OnLabels(Labels{Gestures: res.Gestures, Face: res.Face})
	}

	a.log.WithFields(logrus.Fields{
		"gestures": res.Gestures,
		"face":     res.Face,
	}).Trace("frame presented")
}
